package ideal

import (
	"testing"

	"heavybuilder/core/residue"
)

func TestTableCoversAlphabet(t *testing.T) {
	for ty := residue.Type(0); ty < residue.NumCanonical; ty++ {
		if _, ok := Lookup(ty); !ok {
			t.Errorf("no ideal geometry for %v", ty)
		}
	}
	if _, ok := Lookup(residue.Unknown); ok {
		t.Error("Unknown must not have ideal geometry")
	}
}

func TestChiCounts(t *testing.T) {
	want := map[residue.Type]int{
		residue.Ala: 0, residue.Arg: 4, residue.Asn: 2, residue.Asp: 2, residue.Cys: 1,
		residue.Gln: 3, residue.Glu: 3, residue.Gly: 0, residue.His: 2, residue.Ile: 2,
		residue.Leu: 2, residue.Lys: 4, residue.Met: 3, residue.Phe: 2, residue.Pro: 2,
		residue.Ser: 1, residue.Thr: 1, residue.Trp: 2, residue.Tyr: 2, residue.Val: 1,
	}
	for ty, n := range want {
		if got := NumChi(ty); got != n {
			t.Errorf("%v: NumChi = %d, want %d", ty, got, n)
		}
	}
}

func TestParentsPrecedeChildren(t *testing.T) {
	for ty := residue.Type(0); ty < residue.NumCanonical; ty++ {
		r, _ := Lookup(ty)
		placed := map[string]bool{"N": true, "CA": true, "C": true, "O": true}
		if r.HasCB {
			placed["CB"] = true
		}
		for _, a := range r.SideChain {
			for _, par := range a.Parents {
				if !placed[par] {
					t.Errorf("%v %s: parent %s not placed yet", ty, a.Name, par)
				}
			}
			if placed[a.Name] {
				t.Errorf("%v: atom %s defined twice", ty, a.Name)
			}
			placed[a.Name] = true
		}
		for _, c := range r.Closures {
			if !placed[c.A] || !placed[c.B] {
				t.Errorf("%v: closure %s-%s references unknown atom", ty, c.A, c.B)
			}
		}
	}
}

func TestProlinePuckers(t *testing.T) {
	r, _ := Lookup(residue.Pro)
	if len(r.Puckers) != 2 {
		t.Fatalf("proline puckers = %d, want 2", len(r.Puckers))
	}
	if got := r.PuckerFor(0.4).Name; got != "endo" {
		t.Errorf("chi1 > 0: pucker %s, want endo", got)
	}
	if got := r.PuckerFor(-0.4).Name; got != "exo" {
		t.Errorf("chi1 < 0: pucker %s, want exo", got)
	}
	for _, pk := range r.Puckers {
		if len(pk.SideChain) != len(r.SideChain) {
			t.Fatalf("%s: %d atoms, side chain has %d", pk.Name, len(pk.SideChain), len(r.SideChain))
		}
		for i, a := range pk.SideChain {
			if a.Name != r.SideChain[i].Name || a.Bond != r.SideChain[i].Bond || a.Chi != 0 {
				t.Errorf("%s: atom %d = %+v does not match side chain %+v", pk.Name, i, a, r.SideChain[i])
			}
		}
	}
	if ala, _ := Lookup(residue.Ala); ala.PuckerFor(1) != nil {
		t.Error("alanine has no pucker")
	}
}
