package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear computes x·W + b for each row of x.
type Linear struct {
	W *mat.Dense // in × out
	B []float64
}

// LoadLinear binds the Linear layer prefix from p.
func LoadLinear(p Params, prefix string, in, out int) (Linear, error) {
	w, err := lookup(p, prefix+"/w", in, out)
	if err != nil {
		return Linear{}, err
	}
	b, err := Vector(p, prefix+"/b", out)
	if err != nil {
		return Linear{}, err
	}
	return Linear{W: mat.NewDense(in, out, w.Data), B: b}, nil
}

func (l Linear) In() int  { r, _ := l.W.Dims(); return r }
func (l Linear) Out() int { _, c := l.W.Dims(); return c }

// Forward maps rows×in to a new rows×out matrix.
func (l Linear) Forward(x *mat.Dense) *mat.Dense {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, l.Out(), nil)
	out.Mul(x, l.W)
	for i := 0; i < rows; i++ {
		floats.Add(out.RawRowView(i), l.B)
	}
	return out
}

// LayerNorm normalises each row to zero mean and unit variance, then applies
// a learned scale and offset.
type LayerNorm struct {
	Scale, Offset []float64
	Eps           float64
}

func LoadLayerNorm(p Params, prefix string, dim int) (LayerNorm, error) {
	s, err := Vector(p, prefix+"/scale", dim)
	if err != nil {
		return LayerNorm{}, err
	}
	o, err := Vector(p, prefix+"/offset", dim)
	if err != nil {
		return LayerNorm{}, err
	}
	return LayerNorm{Scale: s, Offset: o, Eps: 1e-5}, nil
}

func (ln LayerNorm) Forward(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		src := x.RawRowView(i)
		dst := out.RawRowView(i)
		mean := floats.Sum(src) / float64(cols)
		var v float64
		for _, a := range src {
			d := a - mean
			v += d * d
		}
		inv := 1 / math.Sqrt(v/float64(cols)+ln.Eps)
		for j, a := range src {
			dst[j] = (a-mean)*inv*ln.Scale[j] + ln.Offset[j]
		}
	}
	return out
}

// ReLU returns max(x, 0) element-wise in a new matrix.
func ReLU(x *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(x)
	out.Apply(func(_, _ int, v float64) float64 { return math.Max(v, 0) }, out)
	return out
}

// Add returns a + b in a new matrix.
func Add(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Add(a, b)
	return &out
}

// Softmax normalises x in place.
func Softmax(x []float64) {
	lse := floats.LogSumExp(x)
	for i := range x {
		x[i] = math.Exp(x[i] - lse)
	}
}

func Softplus(x float64) float64 {
	if x > 30 {
		return x
	}
	return math.Log1p(math.Exp(x))
}

// FirstNonFinite returns the first row holding NaN or ±Inf, or -1.
func FirstNonFinite(x *mat.Dense) int {
	rows, _ := x.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range x.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return i
			}
		}
	}
	return -1
}

// OneHot returns an n×width matrix with a single 1 per row at idx[i].
func OneHot(idx []int, width int) *mat.Dense {
	out := mat.NewDense(len(idx), width, nil)
	for i, k := range idx {
		out.Set(i, k, 1)
	}
	return out
}
