package appcore

import (
	"io"
	"log/slog"

	"heavybuilder/internal/output"
	"heavybuilder/internal/pipeline"
	"heavybuilder/internal/writers"
	"heavybuilder/pkg/api"
)

// ---------------- Structure writer ----------------

type StructureWriterFactory struct {
	Format      string
	OutDir      string // pdb only: one file per record instead of the stream
	Mode        string
	Diagnostics bool
	Logger      *slog.Logger // nil = silent
}

func NewStructureWriterFactory(format, outDir, mode string, diagnostics bool) StructureWriterFactory {
	return StructureWriterFactory{Format: format, OutDir: outDir, Mode: mode, Diagnostics: diagnostics}
}

// PerRecordFiles reports whether records go to OutDir instead of out.
func (w StructureWriterFactory) PerRecordFiles() bool {
	return w.OutDir != "" && w.Format == output.FormatPDB
}

func (w StructureWriterFactory) convert(it pipeline.Item) api.StructureV1 {
	return output.ToAPIStructure(it.Record.ID, it.Result, w.Mode, w.Diagnostics)
}

func (w StructureWriterFactory) Start(out io.Writer, bufSize int) (chan<- pipeline.Item, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan pipeline.Item, bufSize)
	errCh := make(chan error, 1)

	if w.PerRecordFiles() {
		go func() {
			var err error
			for it := range in {
				if err != nil {
					continue
				}
				var path string
				if path, err = writers.WritePDBFile(w.OutDir, w.convert(it)); err == nil && w.Logger != nil {
					w.Logger.Info("wrote", "path", path)
				}
			}
			errCh <- err
		}()
		return in, errCh
	}

	sink, done := writers.StartStructureWriter(out, w.Format, bufSize)
	go func() {
		for it := range in {
			sink <- w.convert(it)
		}
		close(sink)
		errCh <- <-done
	}()
	return in, errCh
}
