package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseYAMLOverDefaults(t *testing.T) {
	src := `
models:
  dir: /opt/heavybuilder/models
ensemble:
  mode: closest
  parallel: 2
output:
  format: jsonl
`
	got, err := Parse([]byte(src), ".yml")
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Models.Dir = "/opt/heavybuilder/models"
	want.Ensemble.Mode = "closest"
	want.Ensemble.Parallel = 2
	want.Output.Format = "jsonl"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestParseJSONDetectedByContent(t *testing.T) {
	got, err := Parse([]byte(`{"threads": 3, "log": {"level": "debug", "format": "json"}}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Threads != 3 || got.Log.Level != "debug" || got.Log.Format != "json" || got.Models.Dir != "models" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("ensemble:\n  modes: closest\n"), ".yaml"); err == nil {
		t.Error("yaml: expected unknown-field error")
	}
	if _, err := Parse([]byte(`{"thread": 1}`), ".json"); err == nil {
		t.Error("json: expected unknown-field error")
	}
}

func TestParseEmptyYAML(t *testing.T) {
	got, err := Parse(nil, ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("empty file should give defaults:\n%s", diff)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	c := Default()
	c.Ensemble.Mode = "median"
	c.Output.Format = "mmcif"
	c.Log.Format = "xml"
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"median", "mmcif", "xml"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heavybuilder.yaml")
	if err := os.WriteFile(path, []byte("threads: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil || c.Threads != 4 {
		t.Fatalf("Load = %+v, %v", c, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
