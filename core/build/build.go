// core/build/build.go
package build

import (
	"fmt"
	"math"

	"heavybuilder/core/geom"
	"heavybuilder/core/ideal"
	"heavybuilder/core/residue"
	"heavybuilder/core/torsion"
)

// Build places every heavy atom of seq from per-residue backbone frames and
// torsions. The last residue receives OXT.
func Build(seq residue.Sequence, frames []geom.Rigid, torsions []torsion.Set) (Structure, error) {
	if len(frames) != len(seq) || len(torsions) != len(seq) {
		return Structure{}, fmt.Errorf("build: %d residues, %d frames, %d torsion sets", len(seq), len(frames), len(torsions))
	}
	s := Structure{Residues: make([]Residue, len(seq))}
	for i, t := range seq {
		r, err := BuildResidue(t, frames[i], torsions[i], i == len(seq)-1)
		if err != nil {
			if g, ok := err.(*GeometryReconstructionError); ok {
				g.Residue = i
			}
			return Structure{}, err
		}
		s.Residues[i] = r
	}
	return s, nil
}

// BuildResidue places one residue in the global frame given by frame.
func BuildResidue(t residue.Type, frame geom.Rigid, set torsion.Set, cTerminal bool) (Residue, error) {
	fail := func(format string, args ...any) (Residue, error) {
		return Residue{}, &GeometryReconstructionError{Type: t, Reason: fmt.Sprintf(format, args...)}
	}
	def, ok := ideal.Lookup(t)
	if !ok {
		return fail("no idealized geometry")
	}
	if !frame.IsFinite() {
		return fail("non-finite backbone frame")
	}
	psi := set[torsion.Psi]
	if !psi.Applicable || math.IsNaN(psi.Radians) {
		return fail("psi not available")
	}

	bb := def.Backbone
	local := make(map[string]geom.Vec3, 16)
	atoms := make([]Atom, 0, 5+len(def.SideChain)+1)
	put := func(name string, pos geom.Vec3) {
		local[name] = pos
		atoms = append(atoms, Atom{Name: name, Element: name[:1], Pos: pos})
	}

	n := geom.Vec3{bb.NCA * math.Cos(bb.NCAC), bb.NCA * math.Sin(bb.NCAC), 0}
	ca := geom.Vec3{}
	c := geom.Vec3{bb.CAC, 0, 0}
	put("N", n)
	put("CA", ca)
	put("C", c)
	put("O", geom.Place(n, ca, c, bb.CO, bb.CACO, psi.Radians+math.Pi))
	if def.HasCB {
		put("CB", geom.Place(n, c, ca, bb.CACB, bb.CCACB, bb.NCCACB))
	}
	side := def.SideChain
	if len(def.Puckers) > 0 {
		chi1 := set.Chi(1)
		if !chi1.Applicable || math.IsNaN(chi1.Radians) {
			return fail("ring pucker needs chi1, which is not available")
		}
		side = def.PuckerFor(chi1.Radians).SideChain
	}
	for _, a := range side {
		dihedral := a.Dihedral
		if a.Chi > 0 {
			chi := set.Chi(a.Chi)
			if !chi.Applicable || math.IsNaN(chi.Radians) {
				return fail("atom %s needs chi%d, which is not available", a.Name, a.Chi)
			}
			dihedral += chi.Radians
		}
		put(a.Name, geom.Place(local[a.Parents[0]], local[a.Parents[1]], local[a.Parents[2]], a.Bond, a.Angle, dihedral))
	}
	if cTerminal {
		o := ideal.TerminalOXT
		put(o.Name, geom.Place(local[o.Parents[0]], local[o.Parents[1]], local[o.Parents[2]], o.Bond, o.Angle, psi.Radians))
	}

	for i := range atoms {
		atoms[i].Pos = frame.Apply(atoms[i].Pos)
		if !atoms[i].Pos.IsFinite() {
			return fail("non-finite position for %s", atoms[i].Name)
		}
	}
	return Residue{Type: t, Atoms: atoms}, nil
}
