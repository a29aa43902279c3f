package input

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/TommyMandex/timestomper/internal/pipeline"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Chain reads several inputs one after another. The path "-" reads stdin.
// Ordinals restart at 1 for every input.
type Chain struct {
	fs     afero.Fs
	paths  []string
	stdin  io.Reader
	logger zerolog.Logger

	cur  *Reader
	next int
}

// NewChain creates a Chain over paths. Inputs are opened lazily, one at a
// time.
func NewChain(fs afero.Fs, paths []string, stdin io.Reader, logger zerolog.Logger) *Chain {
	return &Chain{fs: fs, paths: paths, stdin: stdin, logger: logger}
}

// Next returns the next line of the current input, moving on to the
// following input at the end of each one.
func (c *Chain) Next(ctx context.Context) (pipeline.Line, error) {
	for {
		if c.cur == nil {
			if c.next >= len(c.paths) {
				return pipeline.Line{}, io.EOF
			}
			if err := c.open(c.paths[c.next]); err != nil {
				return pipeline.Line{}, err
			}
			c.next++
		}

		line, err := c.cur.Next(ctx)
		if errors.Is(err, io.EOF) {
			if cerr := c.cur.Close(); cerr != nil {
				c.logger.Warn().Err(cerr).Str("input", c.cur.name).Msg("closing input")
			}
			c.cur = nil
			if ctx.Err() != nil {
				return pipeline.Line{}, io.EOF
			}
			continue
		}
		if err != nil {
			return pipeline.Line{}, fmt.Errorf("%s: %w", c.cur.name, err)
		}

		if len(c.paths) == 1 {
			line.Source = ""
		}
		return line, nil
	}
}

func (c *Chain) open(path string) error {
	if path == "-" {
		c.logger.Debug().Msg("reading stdin")
		c.cur = NewReader(StdinName, c.stdin)
		return nil
	}

	c.logger.Debug().Str("input", path).Msg("opening input")
	r, err := Open(c.fs, path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	c.cur = r
	return nil
}

// Close closes the input currently being read.
func (c *Chain) Close() error {
	if c.cur == nil {
		return nil
	}
	err := c.cur.Close()
	c.cur = nil
	return err
}

// CheckReadable opens and closes every path so that unreadable inputs are
// reported before the first line is read. "-" is skipped.
func CheckReadable(fs afero.Fs, paths []string) error {
	for _, path := range paths {
		if path == "-" {
			continue
		}
		f, err := fs.Open(path)
		if err != nil {
			return err
		}
		info, err := f.Stat()
		f.Close()
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
	}
	return nil
}
