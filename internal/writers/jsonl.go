// internal/writers/jsonl.go
package writers

import (
	"io"

	"heavybuilder/internal/jsonlutil"
	"heavybuilder/pkg/api"
)

// StartStructureJSONLWriter streams each structure as one JSON line (v1).
func StartStructureJSONLWriter(out io.Writer, bufSize int) (chan<- api.StructureV1, <-chan error) {
	return jsonlutil.Stream[api.StructureV1](out, bufSize, IsBrokenPipe)
}

func streamJSONL(w io.Writer, in <-chan api.StructureV1) error {
	ch, done := StartStructureJSONLWriter(w, cap(in))
	for s := range in {
		ch <- s
	}
	close(ch)
	return <-done
}
