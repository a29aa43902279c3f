// Package input provides the line sources read by the conversion pipeline:
// plain readers and files, several inputs chained in order, and a follower
// that keeps reading a file as it grows.
package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/TommyMandex/timestomper/internal/pipeline"
	"github.com/spf13/afero"
)

// StdinName is the source name reported for standard input.
const StdinName = "<stdin>"

// Reader yields the lines of an io.Reader with their original terminators.
type Reader struct {
	name    string
	r       *bufio.Reader
	closer  io.Closer
	ordinal int
}

// NewReader wraps r. Name is reported on every line and may be empty.
func NewReader(name string, r io.Reader) *Reader {
	return &Reader{name: name, r: bufio.NewReader(r)}
}

// Open opens path on fs for reading.
func Open(fs afero.Fs, path string) (*Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(path, f)
	r.closer = f
	return r, nil
}

// Next returns the next line, or io.EOF once the input is exhausted or ctx
// is done.
func (r *Reader) Next(ctx context.Context) (pipeline.Line, error) {
	if ctx.Err() != nil {
		return pipeline.Line{}, io.EOF
	}

	s, err := r.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return pipeline.Line{}, err
	}
	if s == "" {
		return pipeline.Line{}, io.EOF
	}

	r.ordinal++
	text, eol := splitEOL(s)
	return pipeline.Line{Source: r.name, Ordinal: r.ordinal, Text: text, EOL: eol}, nil
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// splitEOL separates a trailing "\n" or "\r\n" from s.
func splitEOL(s string) (text, eol string) {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2], "\r\n"
	case strings.HasSuffix(s, "\n"):
		return s[:len(s)-1], "\n"
	}
	return s, ""
}
