// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"heavybuilder/core/residue"
	"heavybuilder/internal/pipeline"
	"heavybuilder/internal/writers"
)

// Exit codes shared by every command.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

type Options struct {
	Threads int          // 0 = NumCPU
	Logger  *slog.Logger // per-record progress; nil discards
}

type WriterFactory interface {
	Start(out io.Writer, bufSize int) (chan<- pipeline.Item, <-chan error)
}

// ExitCode maps a pipeline error to the process exit code: invalid input is
// the caller's to fix (2), cancellation is 130, anything else is 3.
func ExitCode(err error) int {
	var ise *residue.InvalidSequenceError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.As(err, &ise):
		return ExitUsage
	}
	return ExitRuntime
}

// Run predicts every record from src and streams the results through the
// writer from wf. It returns the exit code.
func Run(
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	src pipeline.Source,
	p pipeline.Predictor,
	wf WriterFactory,
) int {
	outw := bufio.NewWriter(stdout)
	log := o.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total := 0
	perr := pipeline.ForEachPrediction(ctx, pipeline.Config{Threads: thr}, src, p, func(it pipeline.Item) error {
		log.Info("predicted", "id", it.Record.ID, "residues", len(it.Result.Sequence),
			"run_id", it.Result.Diagnostics.RunID, "elapsed", it.Result.Diagnostics.Elapsed)
		select {
		case inCh <- it:
			total++
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return ExitRuntime
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return ExitRuntime
	}

	if perr != nil {
		if code := ExitCode(perr); code != ExitCancelled {
			fmt.Fprintln(stderr, "error:", perr)
			return code
		}
		return ExitCancelled
	}
	if total == 0 {
		fmt.Fprintln(stderr, "error: no input records")
		return ExitUsage
	}
	log.Info("batch finished", "records", total)
	return ExitOK
}
