// core/ideal/ideal.go
// Idealized residue geometry (bond lengths in Å, angles in degrees at
// declaration, radians at use). Values follow Engh & Huber; aromatic rings
// are regular polygons so ring closures are exact. The table is reference
// data versioned alongside model weights.

package ideal

import (
	"heavybuilder/core/geom"
	"heavybuilder/core/residue"
)

// Version identifies this table. Weight files record the version they were
// trained against.
const Version = "engh-huber-1991/hb1"

// Backbone holds the geometry shared by all residue types.
type Backbone struct {
	NCA, CAC, CO, CACB float64 // bond lengths
	NCAC               float64 // angle N-CA-C
	CACO               float64 // angle CA-C-O
	CCACB              float64 // angle C-CA-CB
	NCCACB             float64 // dihedral N-C-CA-CB (fixes L chirality)
}

// AtomDef places one side-chain atom bonded to Parents[2], with angle
// Parents[1]-Parents[2]-atom and dihedral Parents[0]-Parents[1]-Parents[2]-atom.
// When Chi is 1..4 the dihedral is chi_k + Dihedral; when Chi is 0 it is the
// fixed Dihedral.
type AtomDef struct {
	Name     string
	Parents  [3]string
	Bond     float64
	Angle    float64
	Chi      int
	Dihedral float64
}

// Closure is a ring bond not on the build tree whose length the geometry
// guarantees.
type Closure struct {
	A, B   string
	Length float64
}

// Pucker is one closed conformation of a ring whose closure cannot follow
// from free chi angles. Every atom has a fixed dihedral.
type Pucker struct {
	Name      string
	SideChain []AtomDef
}

// Residue is the complete idealized description of one residue type.
type Residue struct {
	Type      residue.Type
	Backbone  Backbone
	HasCB     bool
	SideChain []AtomDef // build order: every parent precedes its children
	Closures  []Closure
	NumChi    int
	// Puckers, when set, replace SideChain at build time. Puckers[0] is used
	// for chi1 ≥ 0, Puckers[1] otherwise. Atom names and bonds match SideChain.
	Puckers []Pucker
}

// PuckerFor picks the ring pucker for a predicted chi1 (radians). It returns
// nil for residues without puckers.
func (r *Residue) PuckerFor(chi1 float64) *Pucker {
	if len(r.Puckers) == 0 {
		return nil
	}
	if chi1 >= 0 || len(r.Puckers) == 1 {
		return &r.Puckers[0]
	}
	return &r.Puckers[1]
}

// TerminalOXT places the C-terminal carboxylate oxygen. Its dihedral
// N-CA-C-OXT is psi, opposite the carbonyl O at psi+π.
var TerminalOXT = AtomDef{Name: "OXT", Parents: [3]string{"N", "CA", "C"}, Bond: 1.25, Angle: geom.Deg(117.0)}

var standardBackbone = Backbone{
	NCA:    1.458,
	CAC:    1.525,
	CO:     1.231,
	CACB:   1.530,
	NCAC:   geom.Deg(111.2),
	CACO:   geom.Deg(120.5),
	CCACB:  geom.Deg(110.1),
	NCCACB: geom.Deg(122.6),
}

// Lookup returns the idealized geometry for t. The second result is false for
// types with no entry (Unknown).
func Lookup(t residue.Type) (*Residue, bool) {
	r, ok := table[t]
	return r, ok
}

// NumChi returns how many chi angles t has, 0 for unsupported types.
func NumChi(t residue.Type) int {
	if r, ok := table[t]; ok {
		return r.NumChi
	}
	return 0
}

var table = func() map[residue.Type]*Residue {
	m := make(map[residue.Type]*Residue, len(sideChains))
	for t, sc := range sideChains {
		r := &Residue{
			Type:      t,
			Backbone:  standardBackbone,
			HasCB:     t != residue.Gly,
			SideChain: radians(sc.atoms),
			Closures:  sc.closures,
			NumChi:    sc.numChi,
		}
		for _, a := range sc.atoms {
			if a.Chi > r.NumChi {
				r.NumChi = a.Chi
			}
		}
		for _, pk := range sc.puckers {
			r.Puckers = append(r.Puckers, Pucker{Name: pk.Name, SideChain: radians(pk.SideChain)})
		}
		if len(r.Puckers) > 0 {
			r.SideChain = r.Puckers[0].SideChain
		}
		m[t] = r
	}
	return m
}()

func radians(atoms []AtomDef) []AtomDef {
	out := make([]AtomDef, len(atoms))
	for i, a := range atoms {
		a.Angle = geom.Deg(a.Angle)
		a.Dihedral = geom.Deg(a.Dihedral)
		out[i] = a
	}
	return out
}
