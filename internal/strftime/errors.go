package strftime

import (
	"errors"
	"fmt"
)

// Sentinel errors; the typed errors below match them with errors.Is.
var (
	ErrUnsupportedDirective = errors.New("unsupported directive")
	ErrFormat               = errors.New("timestamp does not match format")
	ErrMissingYear          = errors.New("year not found in timestamp")
)

// UnsupportedDirectiveError is returned when a pattern uses a directive
// that has no compiled form.
type UnsupportedDirectiveError struct {
	Directive string
}

func (e *UnsupportedDirectiveError) Error() string {
	return fmt.Sprintf("unsupported directive %q", e.Directive)
}

func (e *UnsupportedDirectiveError) Is(target error) bool {
	return target == ErrUnsupportedDirective
}

// FormatError is returned when text does not conform to a parse format.
type FormatError struct {
	Text   string
	Format string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("time data %q does not match format %q: %s", e.Text, e.Format, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
