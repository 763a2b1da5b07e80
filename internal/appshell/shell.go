// Package appshell turns a command entry point into a process: SIGINT and
// SIGTERM cancel its context and its return value becomes the exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"heavybuilder/internal/appcore"
)

// Runner is the signature of app.RunContext.
type Runner func(ctx context.Context, args []string, stdout, stderr io.Writer) int

// Main runs run with the process arguments and exits.
func Main(run Runner) {
	os.Exit(Run(run, os.Args[1:]))
}

// Run calls run under a signal-cancelled context. No arguments means
// --help. A run interrupted by a signal reports ExitCancelled unless it had
// already failed on usage.
func Run(run Runner, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 {
		args = []string{"--help"}
	}
	code := run(ctx, args, os.Stdout, os.Stderr)
	if ctx.Err() != nil && code != appcore.ExitUsage {
		return appcore.ExitCancelled
	}
	return code
}
