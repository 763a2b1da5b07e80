package nn

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type mapParams map[string]*Tensor

func (m mapParams) Tensor(name string) (*Tensor, error) {
	t, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("missing variable %s", name)
	}
	return t, nil
}

func fill(specs []VarSpec, seed int64) mapParams {
	rng := rand.New(rand.NewSource(seed))
	p := mapParams{}
	for _, s := range specs {
		p[s.Name] = s.Fill(rng)
	}
	return p
}

func TestLinearForward(t *testing.T) {
	p := mapParams{
		"l/w": {Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}},
		"l/b": {Shape: []int{3}, Data: []float64{0.5, 0, -1}},
	}
	l, err := LoadLinear(p, "l", 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	x := mat.NewDense(1, 2, []float64{1, -1})
	got := l.Forward(x).RawRowView(0)
	want := []float64{-2.5, -3, -4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Forward = %v, want %v", got, want)
		}
	}
}

func TestLoadLinearShapeMismatch(t *testing.T) {
	p := fill(LinearVars("l", 4, 2, InitGlorot), 1)
	if _, err := LoadLinear(p, "l", 2, 4); err == nil {
		t.Fatal("expected shape error")
	}
	if _, err := LoadLinear(p, "other", 4, 2); err == nil {
		t.Fatal("expected missing-variable error")
	}
}

func TestLayerNormZeroMeanUnitVar(t *testing.T) {
	p := fill(LayerNormVars("ln", 8), 1)
	ln, err := LoadLayerNorm(p, "ln", 8)
	if err != nil {
		t.Fatal(err)
	}
	x := mat.NewDense(2, 8, nil)
	for i := 0; i < 16; i++ {
		x.Set(i/8, i%8, float64(i*i)-7)
	}
	y := ln.Forward(x)
	for r := 0; r < 2; r++ {
		row := y.RawRowView(r)
		var mean, v float64
		for _, a := range row {
			mean += a
		}
		mean /= 8
		for _, a := range row {
			v += (a - mean) * (a - mean)
		}
		if math.Abs(mean) > 1e-9 || math.Abs(v/8-1) > 1e-3 {
			t.Fatalf("row %d: mean %g var %g", r, mean, v/8)
		}
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	x := []float64{1000, 1001, 999, -5}
	Softmax(x)
	var s float64
	for _, v := range x {
		if math.IsNaN(v) {
			t.Fatal("NaN in softmax")
		}
		s += v
	}
	if math.Abs(s-1) > 1e-12 {
		t.Fatalf("sum = %g", s)
	}
}

func TestFirstNonFinite(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{0, 1, 2, 3, 4, 5})
	if r := FirstNonFinite(x); r != -1 {
		t.Fatalf("got %d, want -1", r)
	}
	x.Set(2, 1, math.Inf(1))
	if r := FirstNonFinite(x); r != 2 {
		t.Fatalf("got %d, want 2", r)
	}
}
