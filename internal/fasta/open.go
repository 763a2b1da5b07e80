package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
)

var gzipMagic = []byte{0x1f, 0x8b}

type source struct {
	io.Reader
	close func() error
}

func (s *source) Close() error { return s.close() }

// Open returns a reader over the FASTA text at path; "-" is stdin. Gzip
// input is recognised by its magic bytes, so compressed stdin works as well.
// Closing the reader never closes stdin.
func Open(path string) (io.ReadCloser, error) {
	f := os.Stdin
	closeFile := func() error { return nil }
	if path != "-" {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		closeFile = f.Close
	}

	br := bufio.NewReaderSize(f, 64<<10)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		_ = closeFile()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !bytes.Equal(head, gzipMagic) {
		return &source{Reader: br, close: closeFile}, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = closeFile()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &source{Reader: zr, close: func() error {
		return errors.Join(zr.Close(), closeFile())
	}}, nil
}
