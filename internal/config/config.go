// internal/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"heavybuilder/core/ensemble"
	"heavybuilder/internal/logging"
	"heavybuilder/internal/output"
)

// Config is the file-level configuration. CLI flags override it.
type Config struct {
	Models   Models   `yaml:"models" json:"models"`
	Ensemble Ensemble `yaml:"ensemble" json:"ensemble"`
	Threads  int      `yaml:"threads" json:"threads"` // 0 = NumCPU
	Output   Output   `yaml:"output" json:"output"`
	Log      Log      `yaml:"log" json:"log"`
}

type Models struct {
	Dir string `yaml:"dir" json:"dir"`
}

type Ensemble struct {
	Mode            string  `yaml:"mode" json:"mode"`
	ConfidenceScale float64 `yaml:"confidence_scale" json:"confidence_scale"`
	Parallel        int     `yaml:"parallel" json:"parallel"` // 0 = all models at once
}

type Output struct {
	Format string `yaml:"format" json:"format"`
	Dir    string `yaml:"dir" json:"dir"`
}

type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

func Default() Config {
	return Config{
		Models:   Models{Dir: "models"},
		Ensemble: Ensemble{Mode: ensemble.Average.String(), ConfidenceScale: ensemble.DefaultConfidenceScale},
		Output:   Output{Format: output.FormatPDB},
		Log:      Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML or JSON file over Default(). Format is detected by
// extension (.yaml/.yml, .json) or, failing that, by content.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data over Default(). ext is a format hint; empty = detect.
func Parse(data []byte, ext string) (Config, error) {
	c := Default()
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("parse config json: %w", err)
		}
		return c, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	return c, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := ensemble.ParseMode(c.Ensemble.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Ensemble.ConfidenceScale < 0 {
		errs = append(errs, fmt.Errorf("ensemble.confidence_scale must be ≥ 0 (got %v)", c.Ensemble.ConfidenceScale))
	}
	if c.Ensemble.Parallel < 0 {
		errs = append(errs, fmt.Errorf("ensemble.parallel must be ≥ 0 (got %d)", c.Ensemble.Parallel))
	}
	if c.Threads < 0 {
		errs = append(errs, fmt.Errorf("threads must be ≥ 0 (got %d)", c.Threads))
	}
	if !output.ValidFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format %q not one of %s", c.Output.Format, strings.Join(output.Formats, "|")))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q not one of text|json", c.Log.Format))
	}
	return errors.Join(errs...)
}
