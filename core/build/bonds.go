package build

import (
	"heavybuilder/core/ideal"
	"heavybuilder/core/residue"
)

// Bond is a covalent pair the builder places at its ideal length.
type Bond struct {
	A, B   string
	Length float64
}

// Bonds lists the intra-residue bonds of t guaranteed by BuildResidue,
// including ring closures (proline CD-N among them) and, for the C-terminal
// residue, C-OXT. The peptide bond to the next residue depends on predicted
// frames and is not listed.
func Bonds(t residue.Type, cTerminal bool) ([]Bond, error) {
	def, ok := ideal.Lookup(t)
	if !ok {
		return nil, &GeometryReconstructionError{Residue: -1, Type: t, Reason: "no idealized geometry"}
	}
	bb := def.Backbone
	out := []Bond{
		{A: "N", B: "CA", Length: bb.NCA},
		{A: "CA", B: "C", Length: bb.CAC},
		{A: "C", B: "O", Length: bb.CO},
	}
	if def.HasCB {
		out = append(out, Bond{A: "CA", B: "CB", Length: bb.CACB})
	}
	for _, a := range def.SideChain {
		out = append(out, Bond{A: a.Parents[2], B: a.Name, Length: a.Bond})
	}
	for _, c := range def.Closures {
		out = append(out, Bond{A: c.A, B: c.B, Length: c.Length})
	}
	if cTerminal {
		out = append(out, Bond{A: "C", B: ideal.TerminalOXT.Name, Length: ideal.TerminalOXT.Bond})
	}
	return out, nil
}
