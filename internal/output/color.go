package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TommyMandex/timestomper/internal/rewrite"
	"golang.org/x/term"
)

// ANSI codes wrapped around highlighted replacements.
const (
	colorReset     = "\033[0m"
	colorHighlight = "\033[1;41m" // bold on red
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode converts "auto", "always" or "never" to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "true":
		return ColorAlways, nil
	case "never", "false":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// HighlightMarker returns the marker that wraps replacements written to w,
// or the zero marker when w should not be colorized.
func HighlightMarker(mode ColorMode, w io.Writer) rewrite.Marker {
	if !shouldColorize(mode, w) {
		return rewrite.Marker{}
	}
	return rewrite.Marker{Open: colorHighlight, Close: colorReset}
}
