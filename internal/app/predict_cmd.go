package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heavybuilder/core/ensemble"
	"heavybuilder/core/model"
	"heavybuilder/core/predict"
	"heavybuilder/internal/appcore"
	"heavybuilder/internal/cliutil"
	"heavybuilder/internal/fasta"
	"heavybuilder/internal/output"
	"heavybuilder/internal/pipeline"
)

type predictFlags struct {
	fasta           []string
	sequence        string
	id              string
	models          string
	format          string
	outDir          string
	mode            string
	confidenceScale float64
	threads         int
	parallel        int
	diagnostics     bool
}

func newPredictCmd(g *globalFlags) *cobra.Command {
	pf := &predictFlags{}
	cmd := &cobra.Command{
		Use:   "predict [fasta...]",
		Short: "Predict structures for FASTA records or a single sequence",
		Long: `Predict full-atom heavy-chain structures.

Input is one or more FASTA files (positional or --fasta; "-" reads stdin,
gzip is detected) or a single --sequence. Every model in --models runs on
every record and the outputs are combined into one structure per record.

Usage:
  heavybuilder predict --models models/ antibodies.fa
  heavybuilder predict --models models/ --sequence EVQLVESGGGLVQPGG --format json
  heavybuilder predict --models models/ -f seqs.fa.gz --out-dir out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, g, pf, args)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&pf.fasta, "fasta", "f", nil, "FASTA input file(s); \"-\" for stdin")
	f.StringVarP(&pf.sequence, "sequence", "s", "", "Single amino-acid sequence (instead of FASTA)")
	f.StringVar(&pf.id, "id", "query", "Record ID used with --sequence")
	f.StringVarP(&pf.models, "models", "m", "", "Directory of model weight files (default from config: models)")
	f.StringVarP(&pf.format, "format", "o", "", "Output format: pdb, json, jsonl (default pdb)")
	f.StringVar(&pf.outDir, "out-dir", "", "Write one PDB file per record into this directory")
	f.StringVar(&pf.mode, "mode", "", "Ensemble mode: average or closest (default average)")
	f.Float64Var(&pf.confidenceScale, "confidence-scale", 0, "Distance scale d0 in Å for confidence = 1/(1+(σ/d0)²)")
	f.IntVarP(&pf.threads, "threads", "t", 0, "Records predicted concurrently (0 = NumCPU)")
	f.IntVar(&pf.parallel, "parallel", 0, "Models run concurrently per record (0 = all)")
	f.BoolVar(&pf.diagnostics, "diagnostics", false, "Attach per-model RMSD and timing to JSON output")
	return cmd
}

func runPredict(cmd *cobra.Command, g *globalFlags, pf *predictFlags, args []string) error {
	cfg, err := g.load(cmd)
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("models") {
		cfg.Models.Dir = pf.models
	}
	if fl.Changed("format") {
		cfg.Output.Format = pf.format
	}
	if fl.Changed("out-dir") {
		cfg.Output.Dir = pf.outDir
	}
	if fl.Changed("mode") {
		cfg.Ensemble.Mode = pf.mode
	}
	if fl.Changed("confidence-scale") {
		cfg.Ensemble.ConfidenceScale = pf.confidenceScale
	}
	if fl.Changed("threads") {
		cfg.Threads = pf.threads
	}
	if fl.Changed("parallel") {
		cfg.Ensemble.Parallel = pf.parallel
	}
	if err := cfg.Validate(); err != nil {
		return usageErr(err)
	}
	if cfg.Output.Dir != "" && cfg.Output.Format != output.FormatPDB {
		return usageErr(fmt.Errorf("--out-dir requires --format pdb"))
	}
	mode, _ := ensemble.ParseMode(cfg.Ensemble.Mode)

	inputs, err := cliutil.ExpandInputs(append(append([]string(nil), pf.fasta...), args...))
	if err != nil {
		return usageErr(err)
	}
	var src pipeline.Source
	switch {
	case pf.sequence != "" && len(inputs) > 0:
		return usageErr(fmt.Errorf("--sequence and FASTA input are mutually exclusive"))
	case pf.sequence != "":
		src = pipeline.Records(fasta.Record{ID: pf.id, Seq: pf.sequence})
	case len(inputs) > 0:
		src = pipeline.Files(inputs...)
	default:
		return usageErr(fmt.Errorf("no input: give FASTA files or --sequence"))
	}

	log := logger("cli")
	ws, err := model.LoadDir(cfg.Models.Dir)
	if err != nil {
		return runtimeErr(fmt.Errorf("load models: %w", err))
	}
	nets, err := model.Networks(ws)
	if err != nil {
		return runtimeErr(err)
	}
	if len(nets) == 0 {
		return runtimeErr(fmt.Errorf("%s: %w", cfg.Models.Dir, ensemble.NoModelsAvailableError{}))
	}
	log.Info("models loaded", "dir", cfg.Models.Dir, "count", len(nets), "mode", mode.String())

	pr := predict.New(nets, predict.Options{
		Ensemble: ensemble.Options{Mode: mode, ConfidenceScale: cfg.Ensemble.ConfidenceScale},
		Parallel: cfg.Ensemble.Parallel,
		Logger:   logger("predict"),
	})

	wf := appcore.NewStructureWriterFactory(cfg.Output.Format, cfg.Output.Dir, mode.String(), pf.diagnostics)
	wf.Logger = logger("writer")
	if wf.PerRecordFiles() {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return runtimeErr(err)
		}
	}

	code := appcore.Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(),
		appcore.Options{Threads: cfg.Threads, Logger: log}, src, pr, wf)
	if code != appcore.ExitOK {
		return &exitError{code: code}
	}
	return nil
}
