// Package nn holds the dense numeric primitives the learned components are
// built from: named parameter tensors, linear layers, layer normalisation and
// activations. Activations are gonum *mat.Dense matrices with one row per
// item (residue or residue pair).
//
// nn never owns parameters; it reads them through the Params interface so
// weights stay read-only and shareable across goroutines.
package nn
