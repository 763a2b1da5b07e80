// core/predict/predict.go
package predict

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"heavybuilder/core/build"
	"heavybuilder/core/ensemble"
	"heavybuilder/core/residue"
)

// Options configures a Predictor.
type Options struct {
	Ensemble ensemble.Options
	// Parallel caps concurrent model runs; 0 runs every model at once.
	Parallel int
	// KeepModelOutputs copies each model's own output into Diagnostics.
	KeepModelOutputs bool
	Logger           *slog.Logger // nil discards
}

// Diagnostics describes how a Result was produced.
type Diagnostics struct {
	RunID    string
	Models   []string  // ensemble members in combination order
	RMSD     []float64 // per model, superposed, to the consensus coordinates
	Selected int       // model index chosen in closest mode, -1 otherwise
	Outputs  []ensemble.Output
	Elapsed  time.Duration
}

// Result is the ensemble prediction for one sequence.
type Result struct {
	Sequence      residue.Sequence
	Structure     build.Structure
	Confidence    []float64 // per residue, (0, 1]
	ErrorEstimate []float64 // per residue, Å
	Diagnostics   Diagnostics
}

// Predictor runs an ensemble of models and combines their outputs. It holds
// no mutable state and may be shared across goroutines.
type Predictor struct {
	models []ensemble.Model
	opts   Options
	log    *slog.Logger
}

func New(models []ensemble.Model, opts Options) *Predictor {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Predictor{models: append([]ensemble.Model(nil), models...), opts: opts, log: log}
}

// Models returns the member names in combination order.
func (p *Predictor) Models() []string {
	names := make([]string, len(p.models))
	for i, m := range p.models {
		names[i] = m.Name()
	}
	return names
}

// Predict validates seq, runs every model and combines the outputs. Any
// model failure aborts the whole call.
func (p *Predictor) Predict(ctx context.Context, seq residue.Sequence) (Result, error) {
	if err := residue.Validate(seq); err != nil {
		return Result{}, err
	}
	if len(p.models) == 0 {
		return Result{}, ensemble.NoModelsAvailableError{}
	}

	runID := uuid.NewString()
	start := time.Now()
	log := p.log.With("run_id", runID)
	log.Debug("prediction started", "residues", len(seq), "models", len(p.models))

	outs := make([]ensemble.Output, len(p.models))
	g, gctx := errgroup.WithContext(ctx)
	limit := p.opts.Parallel
	if limit <= 0 {
		limit = len(p.models)
	}
	g.SetLimit(limit)
	for k, m := range p.models {
		k, m := k, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := m.Run(gctx, seq)
			if err != nil {
				return fmt.Errorf("model %s: %w", m.Name(), err)
			}
			outs[k] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Debug("prediction failed", "err", err)
		return Result{}, err
	}

	c, err := ensemble.Combine(outs, p.opts.Ensemble)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Sequence:      seq,
		Structure:     c.Structure,
		Confidence:    c.Confidence,
		ErrorEstimate: c.ErrorEstimate,
		Diagnostics: Diagnostics{
			RunID:    runID,
			Models:   p.Models(),
			RMSD:     c.RMSD,
			Selected: c.Selected,
			Elapsed:  time.Since(start),
		},
	}
	if p.opts.KeepModelOutputs {
		res.Diagnostics.Outputs = outs
	}
	log.Debug("prediction finished", "elapsed", res.Diagnostics.Elapsed, "mode", p.opts.Ensemble.Mode.String())
	return res, nil
}
