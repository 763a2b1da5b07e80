// core/model/weights.go
package model

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"heavybuilder/core/ideal"
	"heavybuilder/core/nn"
)

// FileVersion tags the weight file layout.
const FileVersion = "heavybuilder.model.v1"

// Params maps variable names to tensors. It is never mutated after load.
type Params map[string]*nn.Tensor

func (p Params) Tensor(name string) (*nn.Tensor, error) {
	t, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("missing variable %s", name)
	}
	return t, nil
}

// Names returns the variable names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Weights is one trained model: its name, architecture and parameters.
type Weights struct {
	Name     string
	Geometry string // ideal.Version the model was trained against
	Config   Config
	Params   Params
}

type fileVariable struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Value []float64 `json:"value"`
}

type file struct {
	Version   string         `json:"version"`
	Name      string         `json:"name"`
	Geometry  string         `json:"geometry"`
	Config    Config         `json:"config"`
	Variables []fileVariable `json:"variables"`
}

// Header is the weight file metadata without the tensors.
type Header struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Geometry     string `json:"geometry"`
	Config       Config `json:"config"`
	NumVariables int    `json:"num_variables"`
	NumValues    int    `json:"num_values"`
}

func (w *Weights) Header() Header {
	h := Header{Name: w.Name, Version: FileVersion, Geometry: w.Geometry, Config: w.Config, NumVariables: len(w.Params)}
	for _, t := range w.Params {
		h.NumValues += len(t.Data)
	}
	return h
}

// Init creates freshly initialised weights. The same name, config and seed
// always give the same parameters.
func Init(name string, cfg Config, seed int64) (*Weights, error) {
	if name == "" {
		return nil, errors.New("model: empty name")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	rng := rand.New(rand.NewSource(seed))
	p := make(Params)
	for _, v := range cfg.Variables() {
		p[v.Name] = v.Fill(rng)
	}
	return &Weights{Name: name, Geometry: ideal.Version, Config: cfg, Params: p}, nil
}

// Save writes w as a version-tagged JSON document, variables sorted by name.
func (w *Weights) Save(out io.Writer) error {
	f := file{Version: FileVersion, Name: w.Name, Geometry: w.Geometry, Config: w.Config}
	for _, n := range w.Params.Names() {
		t := w.Params[n]
		f.Variables = append(f.Variables, fileVariable{Name: n, Shape: t.Shape, Value: t.Data})
	}
	enc := json.NewEncoder(out)
	return enc.Encode(&f)
}

// SaveFile writes w to path, gzip-compressed when path ends in .gz.
func (w *Weights) SaveFile(path string) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if !strings.HasSuffix(path, ".gz") {
		return w.Save(fh)
	}
	gz := gzip.NewWriter(fh)
	if err := w.Save(gz); err != nil {
		return err
	}
	return gz.Close()
}

// Load decodes and checks one weight file. Every variable the config needs
// must be present with the declared shape; unknown variables are rejected.
func Load(r io.Reader) (*Weights, error) {
	var f file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	if f.Version != FileVersion {
		return nil, fmt.Errorf("weights %q: unsupported version %q (want %q)", f.Name, f.Version, FileVersion)
	}
	if f.Name == "" {
		return nil, errors.New("weights: missing model name")
	}
	if f.Geometry != ideal.Version {
		return nil, fmt.Errorf("weights %s: trained against geometry %q, this build uses %q", f.Name, f.Geometry, ideal.Version)
	}
	if err := f.Config.Validate(); err != nil {
		return nil, fmt.Errorf("weights %s: %w", f.Name, err)
	}

	p := make(Params, len(f.Variables))
	for _, v := range f.Variables {
		if _, dup := p[v.Name]; dup {
			return nil, fmt.Errorf("weights %s: duplicate variable %s", f.Name, v.Name)
		}
		if len(v.Value) != nn.ShapeSize(v.Shape) {
			return nil, fmt.Errorf("weights %s: variable %s has %d values for shape %v", f.Name, v.Name, len(v.Value), v.Shape)
		}
		p[v.Name] = &nn.Tensor{Shape: v.Shape, Data: v.Value}
	}
	want := f.Config.Variables()
	for _, spec := range want {
		t, ok := p[spec.Name]
		if !ok {
			return nil, fmt.Errorf("weights %s: missing variable %s", f.Name, spec.Name)
		}
		if !sameShape(t.Shape, spec.Shape) {
			return nil, fmt.Errorf("weights %s: variable %s has shape %v, want %v", f.Name, spec.Name, t.Shape, spec.Shape)
		}
	}
	if len(p) != len(want) {
		known := make(map[string]bool, len(want))
		for _, spec := range want {
			known[spec.Name] = true
		}
		for _, n := range p.Names() {
			if !known[n] {
				return nil, fmt.Errorf("weights %s: unexpected variable %s", f.Name, n)
			}
		}
	}
	return &Weights{Name: f.Name, Geometry: f.Geometry, Config: f.Config, Params: p}, nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LoadFile reads one weight file; .gz files are decompressed.
func LoadFile(path string) (*Weights, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var r io.Reader = fh
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	w, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// LoadDir loads every *.json and *.json.gz file in dir, ordered by model
// name. Two files declaring the same name are an error.
func LoadDir(dir string) ([]*Weights, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []*Weights
	seen := make(map[string]string)
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !(strings.HasSuffix(n, ".json") || strings.HasSuffix(n, ".json.gz")) {
			continue
		}
		path := filepath.Join(dir, n)
		w, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[w.Name]; dup {
			return nil, fmt.Errorf("model name %q declared by both %s and %s", w.Name, prev, path)
		}
		seen[w.Name] = path
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
