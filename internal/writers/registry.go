// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"heavybuilder/internal/output"
	"heavybuilder/pkg/api"
)

// StreamFunc consumes structures from in until it is closed.
type StreamFunc func(w io.Writer, in <-chan api.StructureV1) error

// Writer registry (format → handler). Formats register in init().
var StructureWriters = map[string]StreamFunc{}

// Register installs fn for format (last wins).
func Register(format string, fn StreamFunc) { StructureWriters[format] = fn }

// Registered returns the registered formats, sorted.
func Registered() []string {
	out := make([]string, 0, len(StructureWriters))
	for f := range StructureWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(output.FormatPDB, func(w io.Writer, in <-chan api.StructureV1) error {
		for s := range in {
			if err := output.WritePDB(w, s); err != nil {
				return err
			}
		}
		return nil
	})
	Register(output.FormatJSON, func(w io.Writer, in <-chan api.StructureV1) error {
		var buf []api.StructureV1
		for s := range in {
			buf = append(buf, s)
		}
		return output.WriteJSON(w, buf)
	})
	Register(output.FormatJSONL, streamJSONL)
}

// StartStructureWriter spins up a writer goroutine for format. An unknown
// format is reported on the error channel; the input is still drained so
// producers never block.
func StartStructureWriter(out io.Writer, format string, bufSize int) (chan<- api.StructureV1, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan api.StructureV1, bufSize)
	errCh := make(chan error, 1)

	go func() {
		fn, ok := StructureWriters[format]
		if !ok {
			for range in {
			}
			errCh <- fmt.Errorf("unknown output format %q (no writer registered)", format)
			return
		}
		err := fn(out, in)
		for range in {
		}
		errCh <- err
	}()
	return in, errCh
}
