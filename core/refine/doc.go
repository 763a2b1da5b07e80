// Package refine is the iterative structure module. Starting from identity
// frames it runs a fixed number of steps; each step computes an invariant
// attention signal from the single and pair representations and the
// current frames, updates the single representation, composes every frame
// with a predicted delta, and re-orthonormalises the rotations.
//
// State snapshots are never mutated: Step reads one State and returns a new
// one, so "current" and "next" never alias within an iteration.
package refine
