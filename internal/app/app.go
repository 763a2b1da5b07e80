// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"heavybuilder/internal/appcore"
	"heavybuilder/internal/config"
	"heavybuilder/internal/logging"
	"heavybuilder/internal/version"
)

// exitError carries an exit code out of a RunE. A nil err means the
// message was already printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErr(err error) error   { return &exitError{code: appcore.ExitUsage, err: err} }
func runtimeErr(err error) error { return &exitError{code: appcore.ExitRuntime, err: err} }

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// load resolves the config file, applies the global flag overrides,
// validates, and initialises logging on stderr.
func (g *globalFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return cfg, usageErr(err)
		}
	}
	if f := cmd.Flags(); f.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if f := cmd.Flags(); f.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, usageErr(err)
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())
	return cfg, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "heavybuilder",
		Short: "Predict antibody heavy-chain structures from sequence",
		Long: `heavybuilder predicts full-atom antibody heavy-chain structures from amino-acid
sequence with an ensemble of networks, and reports a per-residue confidence
derived from how much the ensemble members disagree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageErr(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (YAML or JSON)")
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(newPredictCmd(g), newInitModelsCmd(g), newInspectCmd(g))
	return root
}

// RunContext executes argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(argv)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return appcore.ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			if errors.Is(ee.err, context.Canceled) {
				return appcore.ExitCancelled
			}
			fmt.Fprintln(stderr, "error:", ee.err)
			if ee.code == appcore.ExitUsage {
				fmt.Fprintln(stderr, "Run 'heavybuilder --help' for usage.")
			}
		}
		return ee.code
	}
	// Argument and unknown-command errors from cobra itself.
	fmt.Fprintln(stderr, "error:", err)
	fmt.Fprintln(stderr, "Run 'heavybuilder --help' for usage.")
	return appcore.ExitUsage
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func logger(component string) *slog.Logger { return logging.New(component) }
