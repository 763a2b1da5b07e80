// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"heavybuilder/core/predict"
	"heavybuilder/pkg/api"
)

// ToAPIStructure converts a prediction to the stable wire schema (v1).
// Diagnostics are attached only when withDiag is set.
func ToAPIStructure(id string, r predict.Result, mode string, withDiag bool) api.StructureV1 {
	v := api.StructureV1{
		SequenceID:    id,
		Sequence:      r.Sequence.String(),
		Residues:      make([]api.ResidueV1, len(r.Structure.Residues)),
		Confidence:    append([]float64(nil), r.Confidence...),
		ErrorEstimate: append([]float64(nil), r.ErrorEstimate...),
		Models:        append([]string(nil), r.Diagnostics.Models...),
		RunID:         r.Diagnostics.RunID,
		Mode:          mode,
	}
	for i, res := range r.Structure.Residues {
		atoms := make([]api.AtomV1, len(res.Atoms))
		for j, a := range res.Atoms {
			atoms[j] = api.AtomV1{Name: a.Name, Element: a.Element, X: a.Pos[0], Y: a.Pos[1], Z: a.Pos[2]}
		}
		v.Residues[i] = api.ResidueV1{Index: i + 1, Name: res.Type.Name(), Atoms: atoms}
	}
	if withDiag {
		d := &api.DiagnosticsV1{
			ModelRMSD: append([]float64(nil), r.Diagnostics.RMSD...),
			ElapsedMS: float64(r.Diagnostics.Elapsed.Microseconds()) / 1000,
		}
		if k := r.Diagnostics.Selected; k >= 0 && k < len(r.Diagnostics.Models) {
			d.Selected = r.Diagnostics.Models[k]
		}
		v.Diagnostics = d
	}
	return v
}

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSON writes a single JSON array of v1 structures (pretty-indented).
func WriteJSON(w io.Writer, list []api.StructureV1) error {
	if list == nil {
		list = []api.StructureV1{}
	}
	return EncodePretty(w, list)
}
