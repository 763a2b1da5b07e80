// core/ensemble/combine.go
package ensemble

import (
	"fmt"
	"math"
	"strings"

	"heavybuilder/core/build"
	"heavybuilder/core/geom"
)

// Mode selects how consensus coordinates are formed.
type Mode int

const (
	// Average takes the per-atom mean of the superposed models.
	Average Mode = iota
	// Closest takes the superposed model with the lowest RMSD to that mean.
	Closest
)

func (m Mode) String() string {
	switch m {
	case Average:
		return "average"
	case Closest:
		return "closest"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts "average" or "closest" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "average", "mean":
		return Average, nil
	case "closest":
		return Closest, nil
	}
	return 0, fmt.Errorf("unknown ensemble mode %q (want average|closest)", s)
}

// DefaultConfidenceScale is d₀ in confidence = 1/(1+(σ/d₀)²), in Å.
const DefaultConfidenceScale = 1.0

type Options struct {
	Mode            Mode
	ConfidenceScale float64 // ≤0 means DefaultConfidenceScale
}

// Consensus is the combined prediction.
type Consensus struct {
	Structure build.Structure
	// Confidence per residue in (0, 1]; 1 iff every model agrees exactly.
	Confidence []float64
	// ErrorEstimate per residue: RMS distance (Å) of the superposed models'
	// atoms to the ensemble mean.
	ErrorEstimate []float64
	// RMSD of each superposed model to the consensus coordinates, all atoms.
	RMSD []float64
	// Selected is the model index used in Closest mode, -1 otherwise.
	Selected int
}

// Combine superposes every output onto the first on backbone atoms and
// reduces them to one structure with per-residue confidence.
func Combine(outputs []Output, opts Options) (Consensus, error) {
	if len(outputs) == 0 {
		return Consensus{}, NoModelsAvailableError{}
	}
	d0 := opts.ConfidenceScale
	if d0 <= 0 {
		d0 = DefaultConfidenceScale
	}
	ref := outputs[0].Structure
	for _, o := range outputs[1:] {
		if !o.Structure.SameLayout(ref) {
			return Consensus{}, fmt.Errorf("ensemble: model %s atom layout differs from %s", o.Model, outputs[0].Model)
		}
	}

	refBackbone := ref.Backbone()
	aligned := make([][]geom.Vec3, len(outputs))
	aligned[0] = ref.Coords()
	for k := 1; k < len(outputs); k++ {
		s := outputs[k].Structure
		sup, err := geom.Kabsch(s.Backbone(), refBackbone)
		if err != nil {
			return Consensus{}, fmt.Errorf("ensemble: superpose %s: %w", outputs[k].Model, err)
		}
		aligned[k] = sup.Transform.ApplyAll(s.Coords())
	}

	nAtoms := len(aligned[0])
	mean := make([]geom.Vec3, nAtoms)
	for a := 0; a < nAtoms; a++ {
		var sum geom.Vec3
		for k := range aligned {
			sum = sum.Add(aligned[k][a])
		}
		mean[a] = sum.Scale(1 / float64(len(aligned)))
	}

	c := Consensus{Selected: -1}
	coords := mean
	if opts.Mode == Closest {
		best, bestRMSD := 0, math.Inf(1)
		for k := range aligned {
			if r := geom.RMSD(aligned[k], mean); r < bestRMSD {
				best, bestRMSD = k, r
			}
		}
		c.Selected = best
		coords = aligned[best]
	}

	var err error
	if c.Structure, err = ref.WithCoords(coords); err != nil {
		return Consensus{}, err
	}

	nRes := len(ref.Residues)
	c.Confidence = make([]float64, nRes)
	c.ErrorEstimate = make([]float64, nRes)
	a := 0
	for i, r := range ref.Residues {
		var ss float64
		for j := 0; j < len(r.Atoms); j++ {
			for k := range aligned {
				d := aligned[k][a+j].Sub(mean[a+j])
				ss += d.Dot(d)
			}
		}
		a += len(r.Atoms)
		sigma := math.Sqrt(ss / float64(len(r.Atoms)*len(aligned)))
		c.ErrorEstimate[i] = sigma
		c.Confidence[i] = 1 / (1 + (sigma/d0)*(sigma/d0))
	}

	c.RMSD = make([]float64, len(aligned))
	for k := range aligned {
		c.RMSD[k] = geom.RMSD(aligned[k], coords)
	}
	return c, nil
}
