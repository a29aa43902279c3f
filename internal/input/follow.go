package input

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/TommyMandex/timestomper/internal/pipeline"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrRotated is returned by a Follower when the followed file is removed or
// renamed and rotation following is disabled.
var ErrRotated = errors.New("file rotated, use --follow-rotate to follow through rotations")

// FollowOptions configures a Follower.
type FollowOptions struct {
	Path          string        // File to follow
	Rotate        bool          // Reopen the path after the file is rotated away
	RotateTimeout time.Duration // How long to wait for a rotated file to reappear
	Logger        zerolog.Logger
}

// Follower reads a file from the start and then keeps yielding lines as
// they are appended, like "tail -f". It ends with io.EOF when the context
// passed to Next is done.
type Follower struct {
	fs      afero.Fs
	opts    FollowOptions
	file    afero.File
	r       *bufio.Reader
	backlog *bufio.Reader
	watcher *fsnotify.Watcher
	partial strings.Builder
	ordinal int
}

// Follow opens opts.Path on fs and starts watching it.
func Follow(fs afero.Fs, opts FollowOptions) (*Follower, error) {
	if opts.RotateTimeout <= 0 {
		opts.RotateTimeout = 10 * time.Second
	}

	f := &Follower{fs: fs, opts: opts}
	if err := f.openFile(); err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.file.Close()
		return nil, fmt.Errorf("failed to setup watcher: %w", err)
	}
	if err := watcher.Add(opts.Path); err != nil {
		watcher.Close()
		f.file.Close()
		return nil, fmt.Errorf("failed to setup watcher: %w", err)
	}
	f.watcher = watcher

	return f, nil
}

func (f *Follower) openFile() error {
	file, err := f.fs.Open(f.opts.Path)
	if err != nil {
		return err
	}
	f.file = file
	f.r = bufio.NewReader(file)
	return nil
}

// Next blocks until a complete line is available.
func (f *Follower) Next(ctx context.Context) (pipeline.Line, error) {
	for {
		if line, ok, err := f.readLine(); err != nil || ok {
			return line, err
		}

		select {
		case <-ctx.Done():
			return f.flush()

		case event, ok := <-f.watcher.Events:
			if !ok {
				return pipeline.Line{}, fmt.Errorf("watcher closed unexpectedly")
			}
			if err := f.handleEvent(ctx, event); err != nil {
				return pipeline.Line{}, err
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return pipeline.Line{}, fmt.Errorf("watcher error channel closed")
			}
			return pipeline.Line{}, fmt.Errorf("watcher error: %w", err)
		}
	}
}

// readLine returns the next complete line if one has been written. Text
// after the last newline is kept until the rest of the line arrives.
func (f *Follower) readLine() (pipeline.Line, bool, error) {
	for {
		src := f.r
		if f.backlog != nil {
			src = f.backlog
		}
		if src == nil {
			return pipeline.Line{}, false, nil
		}

		s, err := src.ReadString('\n')
		f.partial.WriteString(s)
		if err == nil {
			full := f.partial.String()
			f.partial.Reset()
			return f.line(full), true, nil
		}
		if !errors.Is(err, io.EOF) {
			return pipeline.Line{}, false, err
		}
		if f.backlog == nil {
			return pipeline.Line{}, false, nil
		}
		f.backlog = nil
	}
}

// flush returns a pending unterminated line, then io.EOF.
func (f *Follower) flush() (pipeline.Line, error) {
	if f.partial.Len() == 0 {
		return pipeline.Line{}, io.EOF
	}
	full := f.partial.String()
	f.partial.Reset()
	return f.line(full), nil
}

func (f *Follower) line(s string) pipeline.Line {
	f.ordinal++
	text, eol := splitEOL(s)
	return pipeline.Line{Ordinal: f.ordinal, Text: text, EOL: eol}
}

func (f *Follower) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Has(fsnotify.Write):
		// new content is picked up by the next read
		return nil
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return f.handleRotation(ctx)
	}
	return nil
}

// handleRotation waits for a new file to appear at the followed path and
// switches to it. Lines still buffered from the old file are read first.
func (f *Follower) handleRotation(ctx context.Context) error {
	if !f.opts.Rotate {
		return ErrRotated
	}

	rest, err := io.ReadAll(f.r)
	if err != nil {
		return fmt.Errorf("reading rotated file: %w", err)
	}
	f.file.Close()
	f.file, f.r = nil, nil
	f.backlog = bufio.NewReader(bytes.NewReader(rest))

	timeout := time.After(f.opts.RotateTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			file, err := f.fs.Open(f.opts.Path)
			if err != nil {
				continue
			}
			_ = f.watcher.Remove(f.opts.Path)
			if err := f.watcher.Add(f.opts.Path); err != nil {
				file.Close()
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}

			f.file = file
			f.r = bufio.NewReader(file)
			f.opts.Logger.Info().Str("path", f.opts.Path).Msg("file rotated, following new file")
			return nil
		}
	}
}

// Close stops watching and closes the file.
func (f *Follower) Close() error {
	var errs []error
	if f.watcher != nil {
		errs = append(errs, f.watcher.Close())
	}
	if f.file != nil {
		errs = append(errs, f.file.Close())
	}
	return errors.Join(errs...)
}
