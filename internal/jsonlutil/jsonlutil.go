// Package jsonlutil writes values as JSON Lines from a background goroutine.
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
)

// Stream encodes every value sent on the returned channel as one line of
// out. The error channel yields exactly once, after the input is closed and
// out has been flushed. Encoding stops at the first error but the input is
// still drained so senders never block. Errors for which quiet reports true
// are dropped.
func Stream[T any](out io.Writer, depth int, quiet func(error) bool) (chan<- T, <-chan error) {
	if depth <= 0 {
		depth = 64
	}
	in := make(chan T, depth)
	done := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		enc := json.NewEncoder(bw)
		var err error
		for v := range in {
			if err == nil {
				err = enc.Encode(v)
			}
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && quiet != nil && quiet(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
