package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TommyMandex/timestomper/internal/scan"
)

// ParseWindow parses a character range in cut syntax into a scan window.
// Offsets are zero-based and the end is exclusive.
//
//	"10-15"  characters 10 to 14
//	"10-"    character 10 to the end of the line
//	"-15"    the first 15 characters
//	"15"     the first 15 characters
//
// An empty string selects the whole line.
func ParseWindow(s string) (scan.Window, error) {
	input := strings.TrimSpace(s)
	if input == "" {
		return scan.Window{}, nil
	}

	var w scan.Window
	startText, endText, ranged := strings.Cut(input, "-")
	if !ranged {
		startText, endText = "", input
	}

	var err error
	if startText != "" {
		if w.Start, err = parseOffset(startText); err != nil {
			return scan.Window{}, fmt.Errorf("invalid cut %q: %w", s, err)
		}
	}

	if endText == "" {
		w.End = scan.LineEnd
	} else if w.End, err = parseOffset(endText); err != nil {
		return scan.Window{}, fmt.Errorf("invalid cut %q: %w", s, err)
	}

	if w.End != scan.LineEnd && w.End <= w.Start {
		return scan.Window{}, fmt.Errorf("invalid cut %q: start %d must be before end %d", s, w.Start, w.End)
	}
	if err := w.Validate(); err != nil {
		return scan.Window{}, fmt.Errorf("invalid cut %q: %w", s, err)
	}
	return w, nil
}

func parseOffset(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return n, nil
}
