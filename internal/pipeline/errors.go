package pipeline

import "fmt"

// previewRunes bounds the line text quoted in a LineError.
const previewRunes = 64

// LineError is a fatal error tied to one input line.
type LineError struct {
	Source  string
	Ordinal int
	Preview string
	Err     error
}

func newLineError(line Line, err error) *LineError {
	return &LineError{Source: line.Source, Ordinal: line.Ordinal, Preview: preview(line.Text), Err: err}
}

func (e *LineError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: line %d %q: %v", e.Source, e.Ordinal, e.Preview, e.Err)
	}
	return fmt.Sprintf("line %d %q: %v", e.Ordinal, e.Preview, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func preview(text string) string {
	n := 0
	for i := range text {
		if n == previewRunes {
			return text[:i] + "..."
		}
		n++
	}
	return text
}
