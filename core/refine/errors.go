package refine

import "fmt"

// NumericalDivergenceError reports non-finite or degenerate geometry produced
// during refinement. It is fatal for the prediction call.
type NumericalDivergenceError struct {
	Iteration int    // 1-based iteration that produced the value; 0 after the loop
	Residue   int    // 0-based residue index, -1 if not residue-specific
	Quantity  string // "single", "frame", "rotation", "torsion"
}

func (e *NumericalDivergenceError) Error() string {
	if e.Iteration == 0 {
		return fmt.Sprintf("numerical divergence at residue %d: non-finite %s", e.Residue, e.Quantity)
	}
	return fmt.Sprintf("numerical divergence at iteration %d, residue %d: non-finite or degenerate %s",
		e.Iteration, e.Residue, e.Quantity)
}
