package scan

import (
	"errors"
	"fmt"
)

// LineEnd marks a window that extends to the end of every line.
const LineEnd = -1

// Window is a half-open range of character (rune) offsets [Start, End).
// The zero value covers the whole line.
type Window struct {
	Start int
	End   int
}

// Whole reports whether the window covers entire lines.
func (w Window) Whole() bool {
	return w.Start == 0 && (w.End == 0 || w.End == LineEnd)
}

// Validate reports a malformed window.
func (w Window) Validate() error {
	if w == (Window{}) {
		return nil
	}
	if w.Start < 0 {
		return errors.New("window start must not be negative")
	}
	if w.End != LineEnd && w.Start >= w.End {
		return fmt.Errorf("window start %d must be before end %d", w.Start, w.End)
	}
	return nil
}

func (w Window) String() string {
	if w.End == LineEnd || w.Whole() {
		return fmt.Sprintf("[%d:]", w.Start)
	}
	return fmt.Sprintf("[%d:%d)", w.Start, w.End)
}

// Bounds converts the window into byte offsets for line, clipped to the
// line length.
func (w Window) Bounds(line string) (start, end int) {
	if w.Whole() {
		return 0, len(line)
	}

	start, end = len(line), len(line)
	chars := 0
	for i := range line {
		if chars == w.Start {
			start = i
		}
		if w.End != LineEnd && chars == w.End {
			end = i
			break
		}
		chars++
	}
	if start > end {
		start = end
	}
	return start, end
}
