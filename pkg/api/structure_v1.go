// pkg/api/structure_v1.go
package api

// StructureV1 is the stable JSON/JSONL schema for one predicted structure.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type StructureV1 struct {
	SequenceID    string      `json:"sequence_id"`
	Sequence      string      `json:"sequence"`
	Residues      []ResidueV1 `json:"residues"`
	Confidence    []float64   `json:"confidence"`     // per residue, (0, 1]
	ErrorEstimate []float64   `json:"error_estimate"` // per residue, Å
	Models        []string    `json:"models"`
	RunID         string      `json:"run_id"`
	Mode          string      `json:"mode,omitempty"` // "average" | "closest"

	Diagnostics *DiagnosticsV1 `json:"diagnostics,omitempty"`
}

// ResidueV1 is one residue with its heavy atoms in build order.
type ResidueV1 struct {
	Index int      `json:"index"` // 1-based
	Name  string   `json:"name"`  // three-letter code
	Atoms []AtomV1 `json:"atoms"`
}

type AtomV1 struct {
	Name    string  `json:"name"`
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// DiagnosticsV1 is attached when --diagnostics is set.
type DiagnosticsV1 struct {
	ModelRMSD []float64 `json:"model_rmsd"` // per model, Å to consensus
	Selected  string    `json:"selected,omitempty"`
	ElapsedMS float64   `json:"elapsed_ms"`
}
