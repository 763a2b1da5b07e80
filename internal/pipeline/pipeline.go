// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"heavybuilder/core/predict"
	"heavybuilder/core/residue"
	"heavybuilder/internal/fasta"
)

// Config controls the batch pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// Predictor is satisfied by *predict.Predictor.
type Predictor interface {
	Predict(ctx context.Context, seq residue.Sequence) (predict.Result, error)
}

// Item is one finished record.
type Item struct {
	Index  int // 0-based position in the source
	Record fasta.Record
	Result predict.Result
}

// Source produces records in order until exhausted or emit fails.
type Source func(ctx context.Context, emit func(fasta.Record) error) error

// Files reads every path in turn ("-" is stdin; gzip is detected).
func Files(paths ...string) Source {
	return func(ctx context.Context, emit func(fasta.Record) error) error {
		for _, p := range paths {
			if err := fasta.StreamPathCtx(ctx, p, emit); err != nil {
				return err
			}
		}
		return nil
	}
}

// Records serves a fixed list.
func Records(recs ...fasta.Record) Source {
	return func(_ context.Context, emit func(fasta.Record) error) error {
		for _, r := range recs {
			if err := emit(r); err != nil {
				return err
			}
		}
		return nil
	}
}

// ForEachPrediction predicts every record from src and calls visit in source
// order. The first error (bad record, model failure, visit error or
// cancellation) stops the batch and is returned.
func ForEachPrediction(
	ctx context.Context,
	cfg Config,
	src Source,
	p Predictor,
	visit func(Item) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		idx int
		rec fasta.Record
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan Item, cfg.Threads*2)
	g, gctx := errgroup.WithContext(ctx)

	// Feed work
	g.Go(func() error {
		defer close(jobs)
		idx := 0
		return src(gctx, func(r fasta.Record) error {
			select {
			case jobs <- job{idx: idx, rec: r}:
				idx++
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				seq, err := residue.Parse(j.rec.Seq)
				if err != nil {
					return fmt.Errorf("record %s: %w", j.rec.ID, err)
				}
				res, err := p.Predict(gctx, seq)
				if err != nil {
					return fmt.Errorf("record %s: %w", j.rec.ID, err)
				}
				select {
				case results <- Item{Index: j.idx, Record: j.rec, Result: res}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector: re-order by index
	var (
		verr    error
		next    int
		pending = make(map[int]Item)
	)
	for it := range results {
		if verr != nil {
			continue
		}
		pending[it.Index] = it
		for {
			x, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := visit(x); err != nil {
				verr = err
				cancel()
				break
			}
			next++
		}
	}

	gerr := g.Wait()
	if verr != nil {
		return verr
	}
	return gerr
}
