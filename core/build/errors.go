package build

import (
	"fmt"

	"heavybuilder/core/residue"
)

// GeometryReconstructionError means the builder could not place a residue
// from the idealized table and the predicted torsions. It indicates a model
// or table defect, not bad input.
type GeometryReconstructionError struct {
	Residue int // 0-based; -1 when no position applies
	Type    residue.Type
	Reason  string
}

func (e *GeometryReconstructionError) Error() string {
	if e.Residue < 0 {
		return fmt.Sprintf("geometry reconstruction failed for %v: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("geometry reconstruction failed at residue %d (%v): %s", e.Residue+1, e.Type, e.Reason)
}
