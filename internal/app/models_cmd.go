package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"heavybuilder/core/model"
	"heavybuilder/internal/output"
)

type initModelsFlags struct {
	out        string
	count      int
	seed       int64
	iterations int
	prefix     string
	gzip       bool
}

func newInitModelsCmd(g *globalFlags) *cobra.Command {
	fl := &initModelsFlags{}
	cmd := &cobra.Command{
		Use:   "init-models",
		Short: "Write freshly initialised model weight files",
		Long: `Write --count weight files with deterministic random initialisation, one
per ensemble member. Useful for exercising the pipeline and as a template
for trained weights.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := g.load(cmd); err != nil {
				return err
			}
			return runInitModels(cmd, fl)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.out, "out", "models", "Output directory")
	f.IntVar(&fl.count, "count", 4, "Number of models")
	f.Int64Var(&fl.seed, "seed", 1, "Seed of the first model; model i uses seed+i")
	f.IntVar(&fl.iterations, "iterations", 0, "Refinement iterations (0 = default)")
	f.StringVar(&fl.prefix, "prefix", "heavybuilder", "Model name prefix")
	f.BoolVar(&fl.gzip, "gzip", false, "Gzip the weight files")
	return cmd
}

func runInitModels(cmd *cobra.Command, fl *initModelsFlags) error {
	if fl.count < 1 {
		return usageErr(fmt.Errorf("--count must be ≥ 1"))
	}
	cfg := model.DefaultConfig()
	if fl.iterations != 0 {
		cfg.Iterations = fl.iterations
	}
	if err := cfg.Validate(); err != nil {
		return usageErr(err)
	}
	if err := os.MkdirAll(fl.out, 0o755); err != nil {
		return runtimeErr(err)
	}
	log := logger("init-models")
	for i := 0; i < fl.count; i++ {
		name := fmt.Sprintf("%s-%d", fl.prefix, i+1)
		w, err := model.Init(name, cfg, fl.seed+int64(i))
		if err != nil {
			return runtimeErr(err)
		}
		path := filepath.Join(fl.out, name+".json")
		if fl.gzip {
			path += ".gz"
		}
		if err := w.SaveFile(path); err != nil {
			return runtimeErr(err)
		}
		log.Info("wrote model", "name", name, "path", path)
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "inspect [weight-file...]",
		Short: "Print the header of each model weight file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("models") {
				cfg.Models.Dir = dir
			}
			var ws []*model.Weights
			switch {
			case len(args) > 0:
				for _, p := range args {
					w, err := model.LoadFile(p)
					if err != nil {
						return runtimeErr(err)
					}
					ws = append(ws, w)
				}
			default:
				if ws, err = model.LoadDir(cfg.Models.Dir); err != nil {
					return runtimeErr(err)
				}
			}
			headers := make([]model.Header, len(ws))
			for i, w := range ws {
				headers[i] = w.Header()
			}
			if err := output.EncodePretty(cmd.OutOrStdout(), headers); err != nil {
				return runtimeErr(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "models", "m", "", "Directory of model weight files (default from config: models)")
	return cmd
}
