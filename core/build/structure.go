// core/build/structure.go
package build

import (
	"fmt"

	"heavybuilder/core/geom"
	"heavybuilder/core/residue"
)

// Atom is one placed heavy atom.
type Atom struct {
	Name    string
	Element string
	Pos     geom.Vec3
}

// Residue is the atoms of one residue in build order: N, CA, C, O, CB, side
// chain, then OXT on the C-terminal residue.
type Residue struct {
	Type  residue.Type
	Atoms []Atom
}

// Atom returns the position of the named atom.
func (r Residue) Atom(name string) (geom.Vec3, bool) {
	for _, a := range r.Atoms {
		if a.Name == name {
			return a.Pos, true
		}
	}
	return geom.Vec3{}, false
}

// Structure is a full-atom heavy-chain model.
type Structure struct {
	Residues []Residue
}

// NumAtoms counts every atom in s.
func (s Structure) NumAtoms() int {
	n := 0
	for _, r := range s.Residues {
		n += len(r.Atoms)
	}
	return n
}

// Coords returns every atom position in residue then build order.
func (s Structure) Coords() []geom.Vec3 {
	out := make([]geom.Vec3, 0, s.NumAtoms())
	for _, r := range s.Residues {
		for _, a := range r.Atoms {
			out = append(out, a.Pos)
		}
	}
	return out
}

// Backbone returns N, CA, C of every residue.
func (s Structure) Backbone() []geom.Vec3 {
	out := make([]geom.Vec3, 0, 3*len(s.Residues))
	for _, r := range s.Residues {
		out = append(out, r.Atoms[0].Pos, r.Atoms[1].Pos, r.Atoms[2].Pos)
	}
	return out
}

// WithCoords returns a copy of s with positions taken from coords, which must
// follow the Coords layout.
func (s Structure) WithCoords(coords []geom.Vec3) (Structure, error) {
	if len(coords) != s.NumAtoms() {
		return Structure{}, fmt.Errorf("build: %d coordinates for %d atoms", len(coords), s.NumAtoms())
	}
	out := Structure{Residues: make([]Residue, len(s.Residues))}
	k := 0
	for i, r := range s.Residues {
		atoms := make([]Atom, len(r.Atoms))
		for j, a := range r.Atoms {
			a.Pos = coords[k]
			atoms[j] = a
			k++
		}
		out.Residues[i] = Residue{Type: r.Type, Atoms: atoms}
	}
	return out, nil
}

// SameLayout reports whether s and o hold the same atoms in the same order.
func (s Structure) SameLayout(o Structure) bool {
	if len(s.Residues) != len(o.Residues) {
		return false
	}
	for i := range s.Residues {
		a, b := s.Residues[i], o.Residues[i]
		if a.Type != b.Type || len(a.Atoms) != len(b.Atoms) {
			return false
		}
		for j := range a.Atoms {
			if a.Atoms[j].Name != b.Atoms[j].Name {
				return false
			}
		}
	}
	return true
}

// Sequence returns the residue types of s.
func (s Structure) Sequence() residue.Sequence {
	seq := make(residue.Sequence, len(s.Residues))
	for i, r := range s.Residues {
		seq[i] = r.Type
	}
	return seq
}
