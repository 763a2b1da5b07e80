// core/ensemble/model.go
package ensemble

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"heavybuilder/core/build"
	"heavybuilder/core/geom"
	"heavybuilder/core/residue"
	"heavybuilder/core/torsion"
)

// Output is one model's prediction for a sequence.
type Output struct {
	Model     string
	Structure build.Structure
	Frames    []geom.Rigid
	Torsions  []torsion.Set
	Single    *mat.Dense // final per-residue representation, N × SingleDim
	// Trace holds the frames after every refinement iteration.
	Trace [][]geom.Rigid
}

// Model runs the full single-model pipeline. Implementations must be safe for
// concurrent calls.
type Model interface {
	Name() string
	Run(ctx context.Context, seq residue.Sequence) (Output, error)
}

// NoModelsAvailableError is returned when an ensemble has no members.
type NoModelsAvailableError struct{}

func (NoModelsAvailableError) Error() string { return "no models available" }
