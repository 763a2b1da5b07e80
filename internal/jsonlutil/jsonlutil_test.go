package jsonlutil

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type item struct {
	N int `json:"n"`
}

var errBoom = errors.New("boom")

type unencodable struct{}

func (unencodable) MarshalJSON() ([]byte, error) { return nil, errBoom }

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStreamWritesLines(t *testing.T) {
	var b bytes.Buffer
	in, done := Stream[item](&b, 2, nil)
	for i := 1; i <= 3; i++ {
		in <- item{N: i}
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStreamDrainsAfterError(t *testing.T) {
	in, done := Stream[unencodable](&bytes.Buffer{}, 1, nil)
	for i := 0; i < 10; i++ { // would block forever without draining
		in <- unencodable{}
	}
	close(in)
	if err := <-done; !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestStreamQuietErrors(t *testing.T) {
	closed := func(err error) bool { return errors.Is(err, io.ErrClosedPipe) }
	in, done := Stream[item](closedWriter{}, 1, closed)
	in <- item{}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("err = %v, want nil", err)
	}

	in, done = Stream[item](closedWriter{}, 1, nil)
	in <- item{}
	close(in)
	if err := <-done; !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("err = %v, want closed pipe", err)
	}
}
