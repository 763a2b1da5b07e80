package ideal

import "heavybuilder/core/residue"

type sideChain struct {
	atoms    []AtomDef // angles and dihedrals in degrees
	closures []Closure
	puckers  []Pucker // degrees, as atoms
	numChi   int      // set when no atom is driven by a chi
}

func p(a, b, c string) [3]string { return [3]string{a, b, c} }

var sideChains = map[residue.Type]sideChain{
	residue.Ala: {},
	residue.Gly: {},
	residue.Arg: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.520, Angle: 113.8, Chi: 1},
		{Name: "CD", Parents: p("CA", "CB", "CG"), Bond: 1.520, Angle: 111.3, Chi: 2},
		{Name: "NE", Parents: p("CB", "CG", "CD"), Bond: 1.460, Angle: 112.0, Chi: 3},
		{Name: "CZ", Parents: p("CG", "CD", "NE"), Bond: 1.329, Angle: 124.2, Chi: 4},
		{Name: "NH1", Parents: p("CD", "NE", "CZ"), Bond: 1.326, Angle: 120.0, Dihedral: 0},
		{Name: "NH2", Parents: p("CD", "NE", "CZ"), Bond: 1.326, Angle: 120.0, Dihedral: 180},
	}},
	residue.Asn: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.516, Angle: 112.6, Chi: 1},
		{Name: "OD1", Parents: p("CA", "CB", "CG"), Bond: 1.231, Angle: 120.8, Chi: 2},
		{Name: "ND2", Parents: p("CA", "CB", "CG"), Bond: 1.328, Angle: 116.4, Chi: 2, Dihedral: 180},
	}},
	residue.Asp: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.516, Angle: 112.6, Chi: 1},
		{Name: "OD1", Parents: p("CA", "CB", "CG"), Bond: 1.249, Angle: 118.4, Chi: 2},
		{Name: "OD2", Parents: p("CA", "CB", "CG"), Bond: 1.249, Angle: 118.4, Chi: 2, Dihedral: 180},
	}},
	residue.Cys: {atoms: []AtomDef{
		{Name: "SG", Parents: p("N", "CA", "CB"), Bond: 1.808, Angle: 114.0, Chi: 1},
	}},
	residue.Gln: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.520, Angle: 113.8, Chi: 1},
		{Name: "CD", Parents: p("CA", "CB", "CG"), Bond: 1.516, Angle: 112.6, Chi: 2},
		{Name: "OE1", Parents: p("CB", "CG", "CD"), Bond: 1.231, Angle: 120.8, Chi: 3},
		{Name: "NE2", Parents: p("CB", "CG", "CD"), Bond: 1.328, Angle: 116.4, Chi: 3, Dihedral: 180},
	}},
	residue.Glu: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.520, Angle: 113.8, Chi: 1},
		{Name: "CD", Parents: p("CA", "CB", "CG"), Bond: 1.516, Angle: 112.6, Chi: 2},
		{Name: "OE1", Parents: p("CB", "CG", "CD"), Bond: 1.249, Angle: 118.4, Chi: 3},
		{Name: "OE2", Parents: p("CB", "CG", "CD"), Bond: 1.249, Angle: 118.4, Chi: 3, Dihedral: 180},
	}},
	// Imidazole as a regular pentagon (interior 108°, exterior 126°).
	residue.His: {
		atoms: []AtomDef{
			{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.497, Angle: 113.8, Chi: 1},
			{Name: "ND1", Parents: p("CA", "CB", "CG"), Bond: 1.370, Angle: 126.0, Chi: 2},
			{Name: "CD2", Parents: p("CA", "CB", "CG"), Bond: 1.370, Angle: 126.0, Chi: 2, Dihedral: 180},
			{Name: "CE1", Parents: p("CB", "CG", "ND1"), Bond: 1.370, Angle: 108.0, Dihedral: 180},
			{Name: "NE2", Parents: p("CG", "ND1", "CE1"), Bond: 1.370, Angle: 108.0, Dihedral: 0},
		},
		closures: []Closure{{A: "NE2", B: "CD2", Length: 1.370}},
	},
	residue.Ile: {atoms: []AtomDef{
		{Name: "CG1", Parents: p("N", "CA", "CB"), Bond: 1.527, Angle: 110.4, Chi: 1},
		{Name: "CG2", Parents: p("N", "CA", "CB"), Bond: 1.527, Angle: 110.5, Chi: 1, Dihedral: -120},
		{Name: "CD1", Parents: p("CA", "CB", "CG1"), Bond: 1.520, Angle: 113.8, Chi: 2},
	}},
	residue.Leu: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.530, Angle: 116.3, Chi: 1},
		{Name: "CD1", Parents: p("CA", "CB", "CG"), Bond: 1.521, Angle: 110.7, Chi: 2},
		{Name: "CD2", Parents: p("CA", "CB", "CG"), Bond: 1.521, Angle: 110.7, Chi: 2, Dihedral: 120},
	}},
	residue.Lys: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.520, Angle: 113.8, Chi: 1},
		{Name: "CD", Parents: p("CA", "CB", "CG"), Bond: 1.520, Angle: 111.3, Chi: 2},
		{Name: "CE", Parents: p("CB", "CG", "CD"), Bond: 1.520, Angle: 111.3, Chi: 3},
		{Name: "NZ", Parents: p("CG", "CD", "CE"), Bond: 1.489, Angle: 111.9, Chi: 4},
	}},
	residue.Met: {atoms: []AtomDef{
		{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.520, Angle: 113.8, Chi: 1},
		{Name: "SD", Parents: p("CA", "CB", "CG"), Bond: 1.803, Angle: 112.7, Chi: 2},
		{Name: "CE", Parents: p("CB", "CG", "SD"), Bond: 1.791, Angle: 100.9, Chi: 3},
	}},
	// Benzene ring as a regular hexagon.
	residue.Phe: {
		atoms: []AtomDef{
			{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.502, Angle: 113.8, Chi: 1},
			{Name: "CD1", Parents: p("CA", "CB", "CG"), Bond: 1.390, Angle: 120.0, Chi: 2},
			{Name: "CD2", Parents: p("CA", "CB", "CG"), Bond: 1.390, Angle: 120.0, Chi: 2, Dihedral: 180},
			{Name: "CE1", Parents: p("CB", "CG", "CD1"), Bond: 1.390, Angle: 120.0, Dihedral: 180},
			{Name: "CE2", Parents: p("CB", "CG", "CD2"), Bond: 1.390, Angle: 120.0, Dihedral: 180},
			{Name: "CZ", Parents: p("CG", "CD1", "CE1"), Bond: 1.390, Angle: 120.0, Dihedral: 0},
		},
		closures: []Closure{{A: "CZ", B: "CE2", Length: 1.390}},
	},
	// CD-N ring closure is not enforced: chi1/chi2 are predicted freely.
	// Pyrrolidine ring in two fixed puckers (CG-endo, CG-exo). The ring
	// angles are fitted to the shared backbone so that CD-N closes at 1.473.
	residue.Pro: {
		numChi: 2,
		puckers: []Pucker{
			{Name: "endo", SideChain: []AtomDef{
				{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.495, Angle: 99.5, Dihedral: 25},
				{Name: "CD", Parents: p("CA", "CB", "CG"), Bond: 1.502, Angle: 108.1, Dihedral: -31.28},
			}},
			{Name: "exo", SideChain: []AtomDef{
				{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.495, Angle: 99.5, Dihedral: -25},
				{Name: "CD", Parents: p("CA", "CB", "CG"), Bond: 1.502, Angle: 108.1, Dihedral: 31.28},
			}},
		},
		closures: []Closure{{A: "CD", B: "N", Length: 1.473}},
	},
	residue.Ser: {atoms: []AtomDef{
		{Name: "OG", Parents: p("N", "CA", "CB"), Bond: 1.417, Angle: 111.1, Chi: 1},
	}},
	residue.Thr: {atoms: []AtomDef{
		{Name: "OG1", Parents: p("N", "CA", "CB"), Bond: 1.433, Angle: 109.6, Chi: 1},
		{Name: "CG2", Parents: p("N", "CA", "CB"), Bond: 1.521, Angle: 110.5, Chi: 1, Dihedral: -120},
	}},
	// Indole as a regular pentagon fused to a regular hexagon on CD2-CE2.
	residue.Trp: {
		atoms: []AtomDef{
			{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.498, Angle: 113.6, Chi: 1},
			{Name: "CD1", Parents: p("CA", "CB", "CG"), Bond: 1.400, Angle: 126.0, Chi: 2},
			{Name: "CD2", Parents: p("CA", "CB", "CG"), Bond: 1.400, Angle: 126.0, Chi: 2, Dihedral: 180},
			{Name: "NE1", Parents: p("CB", "CG", "CD1"), Bond: 1.400, Angle: 108.0, Dihedral: 180},
			{Name: "CE2", Parents: p("CG", "CD1", "NE1"), Bond: 1.400, Angle: 108.0, Dihedral: 0},
			{Name: "CE3", Parents: p("CB", "CG", "CD2"), Bond: 1.400, Angle: 132.0, Dihedral: 0},
			{Name: "CZ3", Parents: p("CG", "CD2", "CE3"), Bond: 1.400, Angle: 120.0, Dihedral: 180},
			{Name: "CH2", Parents: p("CD2", "CE3", "CZ3"), Bond: 1.400, Angle: 120.0, Dihedral: 0},
			{Name: "CZ2", Parents: p("CE3", "CZ3", "CH2"), Bond: 1.400, Angle: 120.0, Dihedral: 0},
		},
		closures: []Closure{
			{A: "CE2", B: "CD2", Length: 1.400},
			{A: "CZ2", B: "CE2", Length: 1.400},
		},
	},
	residue.Tyr: {
		atoms: []AtomDef{
			{Name: "CG", Parents: p("N", "CA", "CB"), Bond: 1.512, Angle: 113.8, Chi: 1},
			{Name: "CD1", Parents: p("CA", "CB", "CG"), Bond: 1.390, Angle: 120.0, Chi: 2},
			{Name: "CD2", Parents: p("CA", "CB", "CG"), Bond: 1.390, Angle: 120.0, Chi: 2, Dihedral: 180},
			{Name: "CE1", Parents: p("CB", "CG", "CD1"), Bond: 1.390, Angle: 120.0, Dihedral: 180},
			{Name: "CE2", Parents: p("CB", "CG", "CD2"), Bond: 1.390, Angle: 120.0, Dihedral: 180},
			{Name: "CZ", Parents: p("CG", "CD1", "CE1"), Bond: 1.390, Angle: 120.0, Dihedral: 0},
			{Name: "OH", Parents: p("CD1", "CE1", "CZ"), Bond: 1.376, Angle: 120.0, Dihedral: 180},
		},
		closures: []Closure{{A: "CZ", B: "CE2", Length: 1.390}},
	},
	residue.Val: {atoms: []AtomDef{
		{Name: "CG1", Parents: p("N", "CA", "CB"), Bond: 1.527, Angle: 110.7, Chi: 1},
		{Name: "CG2", Parents: p("N", "CA", "CB"), Bond: 1.527, Angle: 110.4, Chi: 1, Dihedral: 120},
	}},
}
