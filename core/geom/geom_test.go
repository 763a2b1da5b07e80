package geom

import (
	"math"
	"math/rand"
	"testing"
)

const tol = 1e-9

func randRot(rng *rand.Rand) Mat3 {
	q := Quat{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	return q.Mat3()
}

func randVec(rng *rand.Rand, scale float64) Vec3 {
	return Vec3{rng.NormFloat64() * scale, rng.NormFloat64() * scale, rng.NormFloat64() * scale}
}

func TestQuatMat3IsProperRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		r := randRot(rng)
		if e := r.OrthonormalityError(); e > 1e-12 {
			t.Fatalf("orthonormality error %g", e)
		}
		if d := r.Det(); math.Abs(d-1) > 1e-12 {
			t.Fatalf("det = %g, want 1", d)
		}
	}
}

func TestOrthonormalizeRepairsDrift(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	r := randRot(rng)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] += 1e-3 * rng.NormFloat64()
		}
	}
	if r.OrthonormalityError() < 1e-4 {
		t.Fatal("perturbation too small to be meaningful")
	}
	o := r.Orthonormalize()
	if e := o.OrthonormalityError(); e > 1e-12 {
		t.Fatalf("after Gram–Schmidt: error %g", e)
	}
	if d := o.Det(); math.Abs(d-1) > 1e-12 {
		t.Fatalf("det = %g", d)
	}
}

func TestRigidComposeInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := Rigid{Rot: randRot(rng), Trans: randVec(rng, 5)}
	b := Rigid{Rot: randRot(rng), Trans: randVec(rng, 5)}
	p := randVec(rng, 3)

	got := a.Compose(b).Apply(p)
	want := a.Apply(b.Apply(p))
	if Dist(got, want) > tol {
		t.Fatalf("compose: got %v want %v", got, want)
	}
	if back := a.InvertApply(a.Apply(p)); Dist(back, p) > tol {
		t.Fatalf("invert apply: got %v want %v", back, p)
	}
	if id := a.Compose(a.Inverse()).Apply(p); Dist(id, p) > tol {
		t.Fatalf("a∘a⁻¹ not identity: %v", id)
	}
}

func TestPlaceReproducesInternalCoordinates(t *testing.T) {
	a := Vec3{0, 1.2, 0.3}
	b := Vec3{0, 0, 0}
	c := Vec3{1.5, 0, 0}
	for _, dih := range []float64{-3.0, -1.1, 0, 0.4, 2.2, math.Pi} {
		d := Place(a, b, c, 1.33, Deg(116.2), dih)
		if got := Dist(c, d); math.Abs(got-1.33) > tol {
			t.Errorf("bond = %g", got)
		}
		if got := Angle(b, c, d); math.Abs(got-Deg(116.2)) > 1e-9 {
			t.Errorf("angle = %g", got)
		}
		if got := Dihedral(a, b, c, d); math.Abs(WrapAngle(got-dih)) > 1e-9 {
			t.Errorf("dihedral = %g want %g", got, dih)
		}
	}
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, c := range cases {
		if got := WrapAngle(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("WrapAngle(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestKabschRecoversKnownTransform(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	pts := make([]Vec3, 40)
	for i := range pts {
		pts[i] = randVec(rng, 8)
	}
	known := Rigid{Rot: randRot(rng), Trans: Vec3{12, -3, 7.5}}
	moved := known.ApplyAll(pts)

	sp, err := Kabsch(pts, moved)
	if err != nil {
		t.Fatal(err)
	}
	if sp.RMSD > 1e-8 {
		t.Fatalf("residual RMSD %g, want ≈0", sp.RMSD)
	}
	if sp.Reflected {
		t.Fatal("unexpected reflection correction")
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(sp.Transform.Rot[i][j]-known.Rot[i][j]) > 1e-8 {
				t.Fatalf("rotation mismatch at %d,%d", i, j)
			}
		}
	}
	if Dist(sp.Transform.Trans, known.Trans) > 1e-8 {
		t.Fatalf("translation %v want %v", sp.Transform.Trans, known.Trans)
	}
}

func TestKabschCorrectsReflection(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pts := make([]Vec3, 20)
	mirrored := make([]Vec3, 20)
	for i := range pts {
		pts[i] = randVec(rng, 4)
		mirrored[i] = Vec3{pts[i][0], pts[i][1], -pts[i][2]}
	}
	sp, err := Kabsch(pts, mirrored)
	if err != nil {
		t.Fatal(err)
	}
	if !sp.Reflected {
		t.Fatal("expected reflection to be detected")
	}
	if d := sp.Transform.Rot.Det(); math.Abs(d-1) > 1e-9 {
		t.Fatalf("det = %g, want +1", d)
	}
	if sp.RMSD <= 0 {
		t.Fatal("a mirror image cannot be superposed exactly by a proper rotation")
	}
}

func TestKabschInputErrors(t *testing.T) {
	if _, err := Kabsch(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := Kabsch([]Vec3{{}}, []Vec3{{}, {}}); err == nil {
		t.Error("expected error for length mismatch")
	}
}
