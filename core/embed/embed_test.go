package embed

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"heavybuilder/core/nn"
	"heavybuilder/core/residue"
)

type mapParams map[string]*nn.Tensor

func (m mapParams) Tensor(name string) (*nn.Tensor, error) {
	if t, ok := m[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("missing variable %s", name)
}

func newEmbedder(t *testing.T, c Config) *Embedder {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	p := mapParams{}
	for _, v := range Variables(c) {
		p[v.Name] = v.Fill(rng)
	}
	e, err := New(p, c)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

var testCfg = Config{SingleDim: 16, PairDim: 8, MaxRelPos: 4}

func TestEmbedShapes(t *testing.T) {
	e := newEmbedder(t, testCfg)
	rep, err := e.Embed(residue.MustParse("EVQLVESGG"))
	if err != nil {
		t.Fatal(err)
	}
	if r, c := rep.Single.Dims(); r != 9 || c != 16 {
		t.Fatalf("single dims %dx%d", r, c)
	}
	if r, c := rep.Pair.Dims(); r != 81 || c != 8 {
		t.Fatalf("pair dims %dx%d", r, c)
	}
}

func TestEmbedDeterministic(t *testing.T) {
	e := newEmbedder(t, testCfg)
	seq := residue.MustParse("QVQLQESGPGLVKPS")
	a, err := e.Embed(seq)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(seq)
	if !mat.Equal(a.Single, b.Single) || !mat.Equal(a.Pair, b.Pair) {
		t.Fatal("embedding is not deterministic")
	}
}

func TestEmbedRelativePositionClipping(t *testing.T) {
	e := newEmbedder(t, testCfg)
	// Identical residues: pair features differ only through relpos, and
	// offsets beyond MaxRelPos share a bin.
	rep, err := e.Embed(residue.MustParse("GGGGGGGGGGGG"))
	if err != nil {
		t.Fatal(err)
	}
	far1 := rep.PairRow(0, 10)
	far2 := rep.PairRow(1, 8)
	for c := range far1 {
		if far1[c] != far2[c] {
			t.Fatalf("clipped offsets differ at channel %d", c)
		}
	}
	near := rep.PairRow(0, 1)
	same := true
	for c := range near {
		if near[c] != far1[c] {
			same = false
		}
	}
	if same {
		t.Fatal("distinct offsets should not share features")
	}
}

func TestEmbedRejectsInvalid(t *testing.T) {
	e := newEmbedder(t, testCfg)
	for _, s := range []residue.Sequence{{}, residue.MustParse("EVXLV")} {
		_, err := e.Embed(s)
		var ise *residue.InvalidSequenceError
		if !errors.As(err, &ise) {
			t.Errorf("Embed(%q): want InvalidSequenceError, got %v", s, err)
		}
	}
}
