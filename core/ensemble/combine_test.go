package ensemble

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"heavybuilder/core/build"
	"heavybuilder/core/geom"
	"heavybuilder/core/residue"
	"heavybuilder/core/torsion"
)

func fixture(t *testing.T, seed int64, seq string) build.Structure {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s := residue.MustParse(seq)
	frames := make([]geom.Rigid, len(s))
	sets := make([]torsion.Set, len(s))
	for i, ty := range s {
		q := geom.Quat{W: rng.NormFloat64(), X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		frames[i] = geom.Rigid{Rot: q.Normalize().Mat3(), Trans: geom.Vec3{3.8 * float64(i), rng.Float64(), rng.Float64()}}
		mask := torsion.Mask(ty)
		for k := range sets[i] {
			if mask[k] {
				sets[i][k] = torsion.Angle{Radians: geom.WrapAngle(rng.Float64() * 2 * math.Pi), Applicable: true}
			} else {
				sets[i][k] = torsion.NotApplicable()
			}
		}
	}
	st, err := build.Build(s, frames, sets)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func transformed(t *testing.T, s build.Structure, f geom.Rigid) build.Structure {
	t.Helper()
	out, err := s.WithCoords(f.ApplyAll(s.Coords()))
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func maxDist(a, b []geom.Vec3) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, geom.Dist(a[i], b[i]))
	}
	return m
}

func TestCombineNoModels(t *testing.T) {
	_, err := Combine(nil, Options{})
	var nm NoModelsAvailableError
	if !errors.As(err, &nm) {
		t.Fatalf("err = %v, want NoModelsAvailableError", err)
	}
}

func TestCombineIdenticalModels(t *testing.T) {
	s := fixture(t, 1, "EVQLVESGGGLVQ")
	outs := []Output{{Model: "a", Structure: s}, {Model: "b", Structure: s}, {Model: "c", Structure: s}}
	for _, mode := range []Mode{Average, Closest} {
		c, err := Combine(outs, Options{Mode: mode})
		if err != nil {
			t.Fatal(err)
		}
		if d := maxDist(c.Structure.Coords(), s.Coords()); d > 1e-9 {
			t.Errorf("%v: consensus deviates from input by %g Å", mode, d)
		}
		for i, conf := range c.Confidence {
			if math.Abs(conf-1) > 1e-12 {
				t.Errorf("%v: residue %d confidence %v, want 1", mode, i, conf)
			}
		}
	}
}

func TestCombineRecoversRigidMotion(t *testing.T) {
	s := fixture(t, 2, "QVQLQESGPGLVKPSE")
	f := geom.Rigid{Rot: geom.RotationAbout(geom.Vec3{1, 2, -0.5}, 2.1), Trans: geom.Vec3{40, -13, 7}}
	outs := []Output{{Model: "a", Structure: s}, {Model: "b", Structure: transformed(t, s, f)}}
	c, err := Combine(outs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if d := maxDist(c.Structure.Coords(), s.Coords()); d > 1e-8 {
		t.Errorf("consensus deviates by %g Å after superposition", d)
	}
	for k, r := range c.RMSD {
		if r > 1e-8 {
			t.Errorf("model %d RMSD %g, want ≈0", k, r)
		}
	}
	if c.Selected != -1 {
		t.Errorf("Selected = %d in average mode", c.Selected)
	}
}

// perturb shifts atoms from..end of residue idx by delta along dir. from = 0
// moves the backbone too; from = 3 leaves N, CA and C in place.
func perturb(t *testing.T, s build.Structure, idx, from int, dir geom.Vec3, delta float64) build.Structure {
	t.Helper()
	coords := s.Coords()
	a := 0
	for i, r := range s.Residues {
		for j := range r.Atoms {
			if i == idx && j >= from {
				coords[a] = coords[a].Add(dir.Scale(delta))
			}
			a++
		}
	}
	out, err := s.WithCoords(coords)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestConfidenceDecreasesWithBackboneDisagreement(t *testing.T) {
	s := fixture(t, 3, "GSWVRQAPGK")
	const idx = 2
	dir := geom.Vec3{-0.6, 0.2, 0.77}.Normalize()
	prev := 1.0
	for _, delta := range []float64{0.05, 0.25, 1, 4, 16} {
		outs := []Output{
			{Model: "a", Structure: s},
			{Model: "b", Structure: s},
			{Model: "c", Structure: perturb(t, s, idx, 0, dir, delta)},
		}
		c, err := Combine(outs, Options{})
		if err != nil {
			t.Fatal(err)
		}
		conf := c.Confidence[idx]
		if !(conf < prev) || conf <= 0 {
			t.Errorf("delta %v: confidence %v not in (0, %v)", delta, conf, prev)
		}
		prev = conf
		if c.RMSD[2] <= 0 {
			t.Errorf("delta %v: perturbed model RMSD %v", delta, c.RMSD[2])
		}
	}
	if prev > 0.1 {
		t.Errorf("a 16 Å backbone shift left confidence at %v", prev)
	}
}

func TestConfidenceDecreasesWithDisagreement(t *testing.T) {
	s := fixture(t, 3, "GSWVRQAPGK")
	const idx = 2 // W
	dir := geom.Vec3{0.3, -0.8, 0.5}.Normalize()
	prev := 1.0
	prevErr := 0.0
	for _, delta := range []float64{0.1, 0.5, 1, 2, 4} {
		outs := []Output{
			{Model: "a", Structure: s},
			{Model: "b", Structure: s},
			{Model: "c", Structure: perturb(t, s, idx, 3, dir, delta)},
		}
		c, err := Combine(outs, Options{})
		if err != nil {
			t.Fatal(err)
		}
		conf := c.Confidence[idx]
		if !(conf < prev) || conf <= 0 {
			t.Errorf("delta %v: confidence %v not in (0, %v)", delta, conf, prev)
		}
		if !(c.ErrorEstimate[idx] > prevErr) {
			t.Errorf("delta %v: error estimate %v not above %v", delta, c.ErrorEstimate[idx], prevErr)
		}
		prev, prevErr = conf, c.ErrorEstimate[idx]
		for i, v := range c.Confidence {
			if i != idx && math.Abs(v-1) > 1e-9 {
				t.Errorf("delta %v: untouched residue %d confidence %v", delta, i, v)
			}
		}
	}
}

func TestConfidenceScale(t *testing.T) {
	s := fixture(t, 4, "AKLW")
	outs := []Output{{Model: "a", Structure: s}, {Model: "b", Structure: perturb(t, s, 3, 3, geom.Vec3{1, 0, 0}, 1.5)}}
	tight, err := Combine(outs, Options{ConfidenceScale: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	loose, err := Combine(outs, Options{ConfidenceScale: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !(tight.Confidence[3] < loose.Confidence[3]) {
		t.Errorf("confidence with d0=0.5 (%v) should be below d0=4 (%v)", tight.Confidence[3], loose.Confidence[3])
	}
	sigma := tight.ErrorEstimate[3]
	if want := 1 / (1 + (sigma/0.5)*(sigma/0.5)); math.Abs(tight.Confidence[3]-want) > 1e-12 {
		t.Errorf("confidence %v, want %v", tight.Confidence[3], want)
	}
}

func TestClosestModePicksMajority(t *testing.T) {
	s := fixture(t, 5, "DYWGQGTLVTVSS")
	outs := []Output{
		{Model: "a", Structure: perturb(t, s, 2, 3, geom.Vec3{0, 0, 1}, 3)},
		{Model: "b", Structure: s},
		{Model: "c", Structure: s},
	}
	c, err := Combine(outs, Options{Mode: Closest})
	if err != nil {
		t.Fatal(err)
	}
	if c.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", c.Selected)
	}
	if d := maxDist(c.Structure.Coords(), s.Coords()); d > 1e-8 {
		t.Errorf("closest consensus deviates by %g Å", d)
	}
}

func TestCombineRejectsLayoutMismatch(t *testing.T) {
	outs := []Output{{Model: "a", Structure: fixture(t, 6, "GAV")}, {Model: "b", Structure: fixture(t, 6, "GAL")}}
	if _, err := Combine(outs, Options{}); err == nil {
		t.Fatal("expected layout mismatch error")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"average", Average, false},
		{"", Average, false},
		{"CLOSEST", Closest, false},
		{"median", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if (err != nil) != tc.wantErr || (!tc.wantErr && got != tc.want) {
			t.Errorf("ParseMode(%q) = %v, %v", tc.in, got, err)
		}
	}
}
