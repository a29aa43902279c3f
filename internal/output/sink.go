package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/TommyMandex/timestomper/internal/pipeline"
	"github.com/spf13/afero"
)

// LineSink writes converted lines, each with its original terminator.
type LineSink struct {
	w      *bufio.Writer
	closer io.Closer
	flush  bool
}

// NewSink writes to w. Closing the sink flushes but does not close w.
func NewSink(w io.Writer) *LineSink {
	return &LineSink{w: bufio.NewWriter(w)}
}

// NewStreamSink is like NewSink but flushes after every line, for
// interactive and follow mode output.
func NewStreamSink(w io.Writer) *LineSink {
	return &LineSink{w: bufio.NewWriter(w), flush: true}
}

// CreateSink creates or truncates path on fs. Closing the sink closes the
// file.
func CreateSink(fs afero.Fs, path string) (*LineSink, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return &LineSink{w: bufio.NewWriter(f), closer: f}, nil
}

// Write writes line followed by its terminator.
func (s *LineSink) Write(line pipeline.Line) error {
	if _, err := s.w.WriteString(line.Text); err != nil {
		return err
	}
	if _, err := s.w.WriteString(line.EOL); err != nil {
		return err
	}
	if s.flush {
		return s.w.Flush()
	}
	return nil
}

// Close flushes buffered output and closes the file the sink owns.
func (s *LineSink) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
