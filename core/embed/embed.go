// core/embed/embed.go
package embed

import (
	"gonum.org/v1/gonum/mat"

	"heavybuilder/core/nn"
	"heavybuilder/core/residue"
)

// Config fixes the representation widths of a trained embedder.
type Config struct {
	SingleDim int // Cs
	PairDim   int // Cz
	MaxRelPos int // relative offsets are clipped to ±MaxRelPos
}

func (c Config) relBins() int { return 2*c.MaxRelPos + 1 }

// Representation is the embedder output for one sequence of length N.
type Representation struct {
	Single *mat.Dense // N × SingleDim
	Pair   *mat.Dense // (N·N) × PairDim, row i*N+j is pair (i, j)
	N      int
}

// PairRow returns the pair features of (i, j). The slice aliases Pair.
func (r Representation) PairRow(i, j int) []float64 {
	return r.Pair.RawRowView(i*r.N + j)
}

// Variables declares the embedder's parameter tensors.
func Variables(c Config) []nn.VarSpec {
	var v []nn.VarSpec
	v = append(v, nn.LinearVars("embed/single", residue.NumCanonical, c.SingleDim, nn.InitGlorot)...)
	v = append(v, nn.LayerNormVars("embed/single_norm", c.SingleDim)...)
	v = append(v, nn.LinearVars("embed/pair_left", residue.NumCanonical, c.PairDim, nn.InitGlorot)...)
	v = append(v, nn.LinearVars("embed/pair_right", residue.NumCanonical, c.PairDim, nn.InitGlorot)...)
	v = append(v, nn.LinearVars("embed/relpos", c.relBins(), c.PairDim, nn.InitGlorot)...)
	return v
}

// Embedder maps a sequence to single and pair representations. It is
// read-only after New and safe for concurrent use.
type Embedder struct {
	cfg        Config
	single     nn.Linear
	singleNorm nn.LayerNorm
	left       nn.Linear
	right      nn.Linear
	relpos     nn.Linear
}

func New(p nn.Params, c Config) (*Embedder, error) {
	e := &Embedder{cfg: c}
	var err error
	if e.single, err = nn.LoadLinear(p, "embed/single", residue.NumCanonical, c.SingleDim); err != nil {
		return nil, err
	}
	if e.singleNorm, err = nn.LoadLayerNorm(p, "embed/single_norm", c.SingleDim); err != nil {
		return nil, err
	}
	if e.left, err = nn.LoadLinear(p, "embed/pair_left", residue.NumCanonical, c.PairDim); err != nil {
		return nil, err
	}
	if e.right, err = nn.LoadLinear(p, "embed/pair_right", residue.NumCanonical, c.PairDim); err != nil {
		return nil, err
	}
	if e.relpos, err = nn.LoadLinear(p, "embed/relpos", c.relBins(), c.PairDim); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Embedder) Config() Config { return e.cfg }

// Embed validates seq and returns its representations.
func (e *Embedder) Embed(seq residue.Sequence) (Representation, error) {
	if err := residue.Validate(seq); err != nil {
		return Representation{}, err
	}
	n := len(seq)
	idx := make([]int, n)
	for i, t := range seq {
		idx[i] = int(t)
	}
	onehot := nn.OneHot(idx, residue.NumCanonical)

	single := e.singleNorm.Forward(e.single.Forward(onehot))

	left := e.left.Forward(onehot)
	right := e.right.Forward(onehot)
	// Relative-position features depend only on clip(j-i); embed each bin once.
	bins := make([]int, e.cfg.relBins())
	for k := range bins {
		bins[k] = k
	}
	relEmb := e.relpos.Forward(nn.OneHot(bins, len(bins)))

	pair := mat.NewDense(n*n, e.cfg.PairDim, nil)
	for i := 0; i < n; i++ {
		li := left.RawRowView(i)
		for j := 0; j < n; j++ {
			rj := right.RawRowView(j)
			rel := relEmb.RawRowView(e.relBin(j - i))
			dst := pair.RawRowView(i*n + j)
			for c := range dst {
				dst[c] = li[c] + rj[c] + rel[c]
			}
		}
	}
	return Representation{Single: single, Pair: pair, N: n}, nil
}

func (e *Embedder) relBin(d int) int {
	if d < -e.cfg.MaxRelPos {
		d = -e.cfg.MaxRelPos
	} else if d > e.cfg.MaxRelPos {
		d = e.cfg.MaxRelPos
	}
	return d + e.cfg.MaxRelPos
}
