// core/model/network.go
package model

import (
	"context"
	"fmt"

	"heavybuilder/core/build"
	"heavybuilder/core/embed"
	"heavybuilder/core/ensemble"
	"heavybuilder/core/refine"
	"heavybuilder/core/residue"
	"heavybuilder/core/torsion"
)

// Network is one ensemble member: embed, refine, predict torsions, build.
// It holds its own read-only parameters and is safe for concurrent Run calls.
type Network struct {
	name    string
	cfg     Config
	embed   *embed.Embedder
	refine  *refine.Module
	torsion *torsion.Predictor
}

var _ ensemble.Model = (*Network)(nil)

// NewNetwork binds w to the network components.
func NewNetwork(w *Weights) (*Network, error) {
	n := &Network{name: w.Name, cfg: w.Config}
	var err error
	if n.embed, err = embed.New(w.Params, w.Config.embed()); err != nil {
		return nil, fmt.Errorf("model %s: %w", w.Name, err)
	}
	if n.refine, err = refine.New(w.Params, w.Config.refine()); err != nil {
		return nil, fmt.Errorf("model %s: %w", w.Name, err)
	}
	if n.torsion, err = torsion.New(w.Params, w.Config.torsion()); err != nil {
		return nil, fmt.Errorf("model %s: %w", w.Name, err)
	}
	return n, nil
}

// Networks binds every weight set, keeping order.
func Networks(ws []*Weights) ([]ensemble.Model, error) {
	out := make([]ensemble.Model, 0, len(ws))
	for _, w := range ws {
		n, err := NewNetwork(w)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (n *Network) Name() string   { return n.name }
func (n *Network) Config() Config { return n.cfg }

// Run predicts a full-atom structure for seq with this model alone.
func (n *Network) Run(ctx context.Context, seq residue.Sequence) (ensemble.Output, error) {
	if err := ctx.Err(); err != nil {
		return ensemble.Output{}, err
	}
	rep, err := n.embed.Embed(seq)
	if err != nil {
		return ensemble.Output{}, err
	}
	res, err := n.refine.Run(rep)
	if err != nil {
		return ensemble.Output{}, err
	}
	sets, err := n.torsion.Predict(seq, res.Single, res.InitialSingle)
	if err != nil {
		return ensemble.Output{}, err
	}
	st, err := build.Build(seq, res.Frames, sets)
	if err != nil {
		return ensemble.Output{}, err
	}
	return ensemble.Output{
		Model:     n.name,
		Structure: st,
		Frames:    res.Frames,
		Torsions:  sets,
		Single:    res.Single,
		Trace:     res.Trace,
	}, nil
}
