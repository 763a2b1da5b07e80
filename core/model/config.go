// core/model/config.go
package model

import (
	"errors"
	"fmt"

	"heavybuilder/core/embed"
	"heavybuilder/core/nn"
	"heavybuilder/core/refine"
	"heavybuilder/core/torsion"
)

// Config is the architecture of one trained network. It is stored in the
// weight file next to the variables it describes.
type Config struct {
	SingleDim     int     `json:"single_dim"`
	PairDim       int     `json:"pair_dim"`
	Heads         int     `json:"heads"`
	HeadDim       int     `json:"head_dim"`
	QueryPoints   int     `json:"query_points"`
	ValuePoints   int     `json:"value_points"`
	Iterations    int     `json:"iterations"`
	TorsionHidden int     `json:"torsion_hidden"`
	MaxRelPos     int     `json:"max_rel_pos"`
	PositionScale float64 `json:"position_scale"`
}

// DefaultConfig is the architecture written by init-models.
func DefaultConfig() Config {
	return Config{
		SingleDim:     64,
		PairDim:       16,
		Heads:         4,
		HeadDim:       16,
		QueryPoints:   4,
		ValuePoints:   8,
		Iterations:    8,
		TorsionHidden: 64,
		MaxRelPos:     32,
		PositionScale: 10,
	}
}

func (c Config) Validate() error {
	var errs []error
	pos := func(name string, v int) {
		if v < 1 {
			errs = append(errs, fmt.Errorf("%s must be ≥ 1 (got %d)", name, v))
		}
	}
	pos("single_dim", c.SingleDim)
	pos("pair_dim", c.PairDim)
	pos("heads", c.Heads)
	pos("head_dim", c.HeadDim)
	pos("query_points", c.QueryPoints)
	pos("value_points", c.ValuePoints)
	pos("iterations", c.Iterations)
	pos("torsion_hidden", c.TorsionHidden)
	if c.MaxRelPos < 0 {
		errs = append(errs, fmt.Errorf("max_rel_pos must be ≥ 0 (got %d)", c.MaxRelPos))
	}
	if !(c.PositionScale > 0) {
		errs = append(errs, fmt.Errorf("position_scale must be > 0 (got %v)", c.PositionScale))
	}
	return errors.Join(errs...)
}

func (c Config) embed() embed.Config {
	return embed.Config{SingleDim: c.SingleDim, PairDim: c.PairDim, MaxRelPos: c.MaxRelPos}
}

func (c Config) refine() refine.Config {
	return refine.Config{
		SingleDim:     c.SingleDim,
		PairDim:       c.PairDim,
		Heads:         c.Heads,
		HeadDim:       c.HeadDim,
		QueryPoints:   c.QueryPoints,
		ValuePoints:   c.ValuePoints,
		Iterations:    c.Iterations,
		PositionScale: c.PositionScale,
	}
}

func (c Config) torsion() torsion.Config {
	return torsion.Config{SingleDim: c.SingleDim, Hidden: c.TorsionHidden}
}

// Variables lists every parameter tensor a network with this config needs.
func (c Config) Variables() []nn.VarSpec {
	var v []nn.VarSpec
	v = append(v, embed.Variables(c.embed())...)
	v = append(v, refine.Variables(c.refine())...)
	v = append(v, torsion.Variables(c.torsion())...)
	return v
}
