package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// Tensor is a dense row-major array with an explicit shape.
type Tensor struct {
	Shape []int
	Data  []float64
}

func NewTensor(shape ...int) *Tensor {
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float64, ShapeSize(shape))}
}

func ShapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Params is a read-only lookup of named tensors.
type Params interface {
	Tensor(name string) (*Tensor, error)
}

// Init selects how a freshly created variable is filled.
type Init int

const (
	InitGlorot Init = iota // normal, std = sqrt(2/(fan_in+fan_out))
	InitSmall              // Glorot scaled by 0.1; used for update heads
	InitZeros
	InitOnes
)

// VarSpec declares one parameter tensor of a component.
type VarSpec struct {
	Name  string
	Shape []int
	Init  Init
}

// Fill allocates a tensor for the spec and initialises it from rng.
func (v VarSpec) Fill(rng *rand.Rand) *Tensor {
	t := NewTensor(v.Shape...)
	switch v.Init {
	case InitOnes:
		for i := range t.Data {
			t.Data[i] = 1
		}
	case InitGlorot, InitSmall:
		fanIn, fanOut := 1, 1
		if len(v.Shape) >= 2 {
			fanIn, fanOut = v.Shape[0], v.Shape[len(v.Shape)-1]
		} else if len(v.Shape) == 1 {
			fanIn, fanOut = v.Shape[0], v.Shape[0]
		}
		std := math.Sqrt(2 / float64(fanIn+fanOut))
		if v.Init == InitSmall {
			std *= 0.1
		}
		for i := range t.Data {
			t.Data[i] = rng.NormFloat64() * std
		}
	}
	return t
}

// LinearVars declares the weight and bias of a Linear layer named prefix.
func LinearVars(prefix string, in, out int, init Init) []VarSpec {
	return []VarSpec{
		{Name: prefix + "/w", Shape: []int{in, out}, Init: init},
		{Name: prefix + "/b", Shape: []int{out}, Init: InitZeros},
	}
}

// LayerNormVars declares the scale and offset of a LayerNorm named prefix.
func LayerNormVars(prefix string, dim int) []VarSpec {
	return []VarSpec{
		{Name: prefix + "/scale", Shape: []int{dim}, Init: InitOnes},
		{Name: prefix + "/offset", Shape: []int{dim}, Init: InitZeros},
	}
}

// lookup fetches name from p and checks its shape.
func lookup(p Params, name string, shape ...int) (*Tensor, error) {
	t, err := p.Tensor(name)
	if err != nil {
		return nil, err
	}
	if len(t.Shape) != len(shape) {
		return nil, fmt.Errorf("variable %s: rank %d, want %d", name, len(t.Shape), len(shape))
	}
	for i := range shape {
		if t.Shape[i] != shape[i] {
			return nil, fmt.Errorf("variable %s: shape %v, want %v", name, t.Shape, shape)
		}
	}
	if len(t.Data) != ShapeSize(shape) {
		return nil, fmt.Errorf("variable %s: %d values for shape %v", name, len(t.Data), shape)
	}
	return t, nil
}

// Vector fetches a rank-1 tensor of length n.
func Vector(p Params, name string, n int) ([]float64, error) {
	t, err := lookup(p, name, n)
	if err != nil {
		return nil, err
	}
	return t.Data, nil
}
