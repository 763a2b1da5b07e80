package refine

import (
	"math"

	"heavybuilder/core/nn"
)

// Config fixes the refinement hyperparameters of a trained model.
type Config struct {
	SingleDim   int
	PairDim     int
	Heads       int
	HeadDim     int // scalar query/key/value channels per head
	QueryPoints int // query/key points per head
	ValuePoints int // value points per head
	Iterations  int // fixed by the trained model; no early exit
	// PositionScale converts predicted translations to Å.
	PositionScale float64
}

func (c Config) outFeatures() int {
	return c.Heads * (c.HeadDim + c.ValuePoints*4 + c.PairDim)
}

// weights used by the point term of the attention logits.
func (c Config) logitWeights() (wL, wC, scalarScale float64) {
	return math.Sqrt(1.0 / 3), math.Sqrt(2 / (9 * float64(c.QueryPoints))), 1 / math.Sqrt(float64(c.HeadDim))
}

// Variables declares the parameter tensors of the structure module. Weights
// are shared across iterations.
func Variables(c Config) []nn.VarSpec {
	var v []nn.VarSpec
	add := func(s []nn.VarSpec) { v = append(v, s...) }
	hc := c.Heads * c.HeadDim
	add(nn.LayerNormVars("refine/single_norm", c.SingleDim))
	add(nn.LayerNormVars("refine/pair_norm", c.PairDim))
	add(nn.LinearVars("refine/input_proj", c.SingleDim, c.SingleDim, nn.InitGlorot))

	add(nn.LinearVars("refine/ipa/q", c.SingleDim, hc, nn.InitGlorot))
	add(nn.LinearVars("refine/ipa/k", c.SingleDim, hc, nn.InitGlorot))
	add(nn.LinearVars("refine/ipa/v", c.SingleDim, hc, nn.InitGlorot))
	add(nn.LinearVars("refine/ipa/q_pts", c.SingleDim, c.Heads*c.QueryPoints*3, nn.InitGlorot))
	add(nn.LinearVars("refine/ipa/k_pts", c.SingleDim, c.Heads*c.QueryPoints*3, nn.InitGlorot))
	add(nn.LinearVars("refine/ipa/v_pts", c.SingleDim, c.Heads*c.ValuePoints*3, nn.InitGlorot))
	add(nn.LinearVars("refine/ipa/pair_bias", c.PairDim, c.Heads, nn.InitGlorot))
	v = append(v, nn.VarSpec{Name: "refine/ipa/head_weights", Shape: []int{c.Heads}, Init: nn.InitZeros})
	add(nn.LinearVars("refine/ipa/out", c.outFeatures(), c.SingleDim, nn.InitSmall))
	add(nn.LayerNormVars("refine/ipa_norm", c.SingleDim))

	add(nn.LinearVars("refine/transition/1", c.SingleDim, c.SingleDim, nn.InitGlorot))
	add(nn.LinearVars("refine/transition/2", c.SingleDim, c.SingleDim, nn.InitGlorot))
	add(nn.LinearVars("refine/transition/3", c.SingleDim, c.SingleDim, nn.InitSmall))
	add(nn.LayerNormVars("refine/transition_norm", c.SingleDim))

	add(nn.LinearVars("refine/backbone", c.SingleDim, 6, nn.InitSmall))
	return v
}
