// internal/output/pdb.go
package output

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"heavybuilder/pkg/api"
)

// Chain is the chain identifier written for every heavy-chain model.
const Chain = 'H'

// maxBFactor is the largest value the 6.2f B-factor column can hold.
const maxBFactor = 999.99

// WritePDB writes s as PDB ATOM records. The B-factor column carries the
// per-residue error estimate in Å; occupancy is always 1.00.
func WritePDB(w io.Writer, s api.StructureV1) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "REMARK   1 HEAVYBUILDER %s\n", s.SequenceID)
	if s.RunID != "" {
		fmt.Fprintf(bw, "REMARK   1 RUN %s\n", s.RunID)
	}
	if len(s.Models) > 0 {
		fmt.Fprintf(bw, "REMARK   1 MODELS %s\n", strings.Join(s.Models, " "))
	}
	if s.Mode != "" {
		fmt.Fprintf(bw, "REMARK   1 MODE %s\n", s.Mode)
	}

	serial := 0
	var last api.ResidueV1
	for i, r := range s.Residues {
		b := 0.0
		if i < len(s.ErrorEstimate) {
			b = math.Min(s.ErrorEstimate[i], maxBFactor)
		}
		for _, a := range r.Atoms {
			serial++
			fmt.Fprintf(bw, "ATOM  %5d %-4s %3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
				serial, atomField(a.Name), r.Name, Chain, r.Index, a.X, a.Y, a.Z, 1.0, b, a.Element)
		}
		last = r
	}
	if len(s.Residues) > 0 {
		serial++
		fmt.Fprintf(bw, "TER   %5d      %3s %c%4d\n", serial, last.Name, Chain, last.Index)
	}
	fmt.Fprintln(bw, "END")
	return bw.Flush()
}

// atomField aligns names the PDB way: one-letter elements start in column 14.
func atomField(name string) string {
	if len(name) < 4 {
		return " " + name
	}
	return name
}
