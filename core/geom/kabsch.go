package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Superposition is the optimal rigid transform of a mobile point set onto a
// target, with the residual RMSD after applying it.
type Superposition struct {
	Transform Rigid
	RMSD      float64
	// Reflected is set when the raw SVD solution was an improper rotation and
	// the smallest-singular-value axis had to be flipped.
	Reflected bool
}

// Kabsch finds the rotation and translation minimising the squared distance
// between Transform.Apply(mobile[i]) and target[i].
func Kabsch(mobile, target []Vec3) (Superposition, error) {
	if len(mobile) != len(target) {
		return Superposition{}, fmt.Errorf("kabsch: point count mismatch (%d vs %d)", len(mobile), len(target))
	}
	if len(mobile) == 0 {
		return Superposition{}, errors.New("kabsch: empty point set")
	}
	cm := Centroid(mobile)
	ct := Centroid(target)

	// H = Σ p_i q_iᵀ over centred points.
	h := mat.NewDense(3, 3, nil)
	for i := range mobile {
		p := mobile[i].Sub(cm)
		q := target[i].Sub(ct)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+p[r]*q[c])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return Superposition{}, errors.New("kabsch: SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Singular values come back in descending order, so the last axis is the
	// one to flip when det(V·Uᵀ) < 0.
	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := 1.0
	reflected := false
	if mat.Det(&vut) < 0 {
		d = -1
		reflected = true
	}
	var rd mat.Dense
	rd.Product(&v, mat.NewDiagDense(3, []float64{1, 1, d}), u.T())

	var rot Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rot[r][c] = rd.At(r, c)
		}
	}
	tr := Rigid{Rot: rot, Trans: ct.Sub(rot.MulVec(cm))}
	return Superposition{
		Transform: tr,
		RMSD:      RMSD(tr.ApplyAll(mobile), target),
		Reflected: reflected,
	}, nil
}

// RMSD is the root-mean-square deviation between corresponding points.
// Slices of different length compare only the common prefix.
func RMSD(a, b []Vec3) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var s float64
	for i := 0; i < n; i++ {
		d := a[i].Sub(b[i])
		s += d.Dot(d)
	}
	return math.Sqrt(s / float64(n))
}
