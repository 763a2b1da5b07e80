package appcore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"heavybuilder/core/ensemble"
	"heavybuilder/core/predict"
	"heavybuilder/core/residue"
	"heavybuilder/internal/fasta"
	"heavybuilder/internal/pipeline"
	"heavybuilder/pkg/api"
)

type stubPredictor struct{ err error }

func (s stubPredictor) Predict(_ context.Context, seq residue.Sequence) (predict.Result, error) {
	if err := residue.Validate(seq); err != nil {
		return predict.Result{}, err
	}
	if s.err != nil {
		return predict.Result{}, s.err
	}
	return predict.Result{Sequence: seq, Diagnostics: predict.Diagnostics{RunID: "r", Selected: -1}}, nil
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("record x: %w", context.Canceled), ExitCancelled},
		{fmt.Errorf("record x: %w", &residue.InvalidSequenceError{Pos: 1}), ExitUsage},
		{fmt.Errorf("model a: %w", ensemble.NoModelsAvailableError{}), ExitRuntime},
	}
	for _, tc := range tests {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRunJSONL(t *testing.T) {
	var out, errBuf bytes.Buffer
	src := pipeline.Records(fasta.Record{ID: "a", Seq: "GAV"}, fasta.Record{ID: "b", Seq: "WY"})
	code := Run(context.Background(), &out, &errBuf, Options{Threads: 2}, src, stubPredictor{},
		NewStructureWriterFactory("jsonl", "", "average", false))
	if code != ExitOK {
		t.Fatalf("exit %d: %s", code, errBuf.String())
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	var s api.StructureV1
	if err := json.Unmarshal([]byte(lines[1]), &s); err != nil || s.SequenceID != "b" || s.Sequence != "WY" {
		t.Fatalf("second line %q: %v", lines[1], err)
	}
}

func TestRunExitCodes(t *testing.T) {
	wf := NewStructureWriterFactory("json", "", "average", false)
	tests := []struct {
		name string
		src  pipeline.Source
		p    stubPredictor
		want int
	}{
		{"invalid residue", pipeline.Records(fasta.Record{ID: "a", Seq: "GAXV"}), stubPredictor{}, ExitUsage},
		{"empty input", pipeline.Records(), stubPredictor{}, ExitUsage},
		{"runtime failure", pipeline.Records(fasta.Record{ID: "a", Seq: "GA"}), stubPredictor{err: errors.New("boom")}, ExitRuntime},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out, errBuf bytes.Buffer
			if code := Run(context.Background(), &out, &errBuf, Options{Threads: 1}, tc.src, tc.p, wf); code != tc.want {
				t.Fatalf("exit %d, want %d (stderr %q)", code, tc.want, errBuf.String())
			}
		})
	}
}

func TestRunPerRecordPDBFiles(t *testing.T) {
	dir := t.TempDir()
	var out, errBuf bytes.Buffer
	wf := NewStructureWriterFactory("pdb", dir, "average", false)
	if !wf.PerRecordFiles() {
		t.Fatal("pdb with out dir should write per-record files")
	}
	src := pipeline.Records(fasta.Record{ID: "h1", Seq: "G"}, fasta.Record{ID: "h2", Seq: "A"})
	if code := Run(context.Background(), &out, &errBuf, Options{Threads: 2}, src, stubPredictor{}, wf); code != ExitOK {
		t.Fatalf("exit %d: %s", code, errBuf.String())
	}
	for _, n := range []string{"h1.pdb", "h2.pdb"} {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("%s: %v", n, err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if NewStructureWriterFactory("json", dir, "", false).PerRecordFiles() {
		t.Error("json never writes per-record files")
	}
}
