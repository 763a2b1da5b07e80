// core/torsion/torsion.go
package torsion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"heavybuilder/core/ideal"
	"heavybuilder/core/nn"
	"heavybuilder/core/refine"
	"heavybuilder/core/residue"
)

// Slot indexes the seven torsions predicted per residue.
type Slot int

const (
	Omega Slot = iota
	Phi
	Psi
	Chi1
	Chi2
	Chi3
	Chi4
	NumSlots
)

var slotNames = [NumSlots]string{"omega", "phi", "psi", "chi1", "chi2", "chi3", "chi4"}

func (s Slot) String() string {
	if s >= 0 && s < NumSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// Angle is one torsion. Radians lies in (-π, π] when Applicable and is NaN
// otherwise.
type Angle struct {
	Radians    float64
	Applicable bool
}

// NotApplicable is the marker for a torsion the residue type does not have.
func NotApplicable() Angle { return Angle{Radians: math.NaN()} }

// Set holds every torsion of one residue.
type Set [NumSlots]Angle

// Chi returns chi_k (1-based).
func (s Set) Chi(k int) Angle {
	if k < 1 || k > 4 {
		return NotApplicable()
	}
	return s[Chi1+Slot(k-1)]
}

// Mask reports which slots exist for t: omega, phi and psi always; chi_k
// when t has at least k chi angles.
func Mask(t residue.Type) [NumSlots]bool {
	var m [NumSlots]bool
	m[Omega], m[Phi], m[Psi] = true, true, true
	for k := 0; k < ideal.NumChi(t); k++ {
		m[Chi1+Slot(k)] = true
	}
	return m
}

// Config fixes the widths of a trained angle network.
type Config struct {
	SingleDim int
	Hidden    int
}

const residualBlocks = 2

func Variables(c Config) []nn.VarSpec {
	var v []nn.VarSpec
	v = append(v, nn.LinearVars("torsion/in_final", c.SingleDim, c.Hidden, nn.InitGlorot)...)
	v = append(v, nn.LinearVars("torsion/in_initial", c.SingleDim, c.Hidden, nn.InitGlorot)...)
	for b := 1; b <= residualBlocks; b++ {
		v = append(v, nn.LinearVars(fmt.Sprintf("torsion/block%d/1", b), c.Hidden, c.Hidden, nn.InitGlorot)...)
		v = append(v, nn.LinearVars(fmt.Sprintf("torsion/block%d/2", b), c.Hidden, c.Hidden, nn.InitSmall)...)
	}
	v = append(v, nn.LinearVars("torsion/out", c.Hidden, 2*int(NumSlots), nn.InitGlorot)...)
	return v
}

// Predictor is the angle network. Read-only after New.
type Predictor struct {
	cfg              Config
	inFinal, inFirst nn.Linear
	blocks           [residualBlocks][2]nn.Linear
	out              nn.Linear
}

func New(p nn.Params, c Config) (*Predictor, error) {
	if c.SingleDim < 1 || c.Hidden < 1 {
		return nil, fmt.Errorf("torsion: invalid config %+v", c)
	}
	tp := &Predictor{cfg: c}
	var err error
	if tp.inFinal, err = nn.LoadLinear(p, "torsion/in_final", c.SingleDim, c.Hidden); err != nil {
		return nil, err
	}
	if tp.inFirst, err = nn.LoadLinear(p, "torsion/in_initial", c.SingleDim, c.Hidden); err != nil {
		return nil, err
	}
	for b := range tp.blocks {
		for l := range tp.blocks[b] {
			name := fmt.Sprintf("torsion/block%d/%d", b+1, l+1)
			if tp.blocks[b][l], err = nn.LoadLinear(p, name, c.Hidden, c.Hidden); err != nil {
				return nil, err
			}
		}
	}
	if tp.out, err = nn.LoadLinear(p, "torsion/out", c.Hidden, 2*int(NumSlots)); err != nil {
		return nil, err
	}
	return tp, nil
}

// Predict returns one Set per residue from the final and initial single
// representations (both N × SingleDim).
func (tp *Predictor) Predict(seq residue.Sequence, final, initial *mat.Dense) ([]Set, error) {
	if err := residue.Validate(seq); err != nil {
		return nil, err
	}
	n := len(seq)
	if r, c := final.Dims(); r != n || c != tp.cfg.SingleDim {
		return nil, fmt.Errorf("torsion: final single is %d×%d, want %d×%d", r, c, n, tp.cfg.SingleDim)
	}
	if r, c := initial.Dims(); r != n || c != tp.cfg.SingleDim {
		return nil, fmt.Errorf("torsion: initial single is %d×%d, want %d×%d", r, c, n, tp.cfg.SingleDim)
	}

	a := nn.Add(tp.inFinal.Forward(nn.ReLU(final)), tp.inFirst.Forward(nn.ReLU(initial)))
	for _, blk := range tp.blocks {
		h := blk[1].Forward(nn.ReLU(blk[0].Forward(nn.ReLU(a))))
		a = nn.Add(a, h)
	}
	raw := tp.out.Forward(nn.ReLU(a))
	if i := nn.FirstNonFinite(raw); i >= 0 {
		return nil, &refine.NumericalDivergenceError{Residue: i, Quantity: "torsion"}
	}

	sets := make([]Set, n)
	for i, t := range seq {
		mask := Mask(t)
		row := raw.RawRowView(i)
		for s := Slot(0); s < NumSlots; s++ {
			if !mask[s] {
				sets[i][s] = NotApplicable()
				continue
			}
			sn, cs := row[2*s], row[2*s+1]
			// project onto the unit circle; the zero vector maps to 0
			if norm := math.Hypot(sn, cs); norm > 0 {
				sn, cs = sn/norm, cs/norm
			}
			sets[i][s] = Angle{Radians: math.Atan2(sn, cs), Applicable: true}
		}
	}
	return sets, nil
}
