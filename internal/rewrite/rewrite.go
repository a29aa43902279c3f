// Package rewrite splices replacement text into a line at spans that were
// located against the unmodified line.
package rewrite

import "fmt"

// Replacement substitutes Text for the byte range [Start, End) of the
// original line.
type Replacement struct {
	Start int
	End   int
	Text  string
}

// Marker wraps each inserted replacement for display. The zero value adds
// nothing.
type Marker struct {
	Open  string
	Close string
}

// IsZero reports whether the marker adds no text.
func (m Marker) IsZero() bool {
	return m.Open == "" && m.Close == ""
}

// ReplaceError reports a replacement that cannot be applied to the line.
type ReplaceError struct {
	Index  int
	Start  int
	End    int
	Reason string
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("replacement %d [%d:%d): %s", e.Index, e.Start, e.End, e.Reason)
}

type span struct{ start, end int }

// Apply returns line with every replacement spliced in. Replacements must be
// sorted by Start and must not overlap.
//
// Each splice lands at its original span shifted by the running length
// difference of the splices before it. Marker text is added afterwards and
// never shifts later spans.
func Apply(line string, reps []Replacement, marker Marker) (string, error) {
	if len(reps) == 0 {
		return line, nil
	}

	prevEnd := 0
	for i, r := range reps {
		switch {
		case r.Start < 0 || r.End > len(line):
			return "", &ReplaceError{Index: i, Start: r.Start, End: r.End, Reason: fmt.Sprintf("outside line of length %d", len(line))}
		case r.Start > r.End:
			return "", &ReplaceError{Index: i, Start: r.Start, End: r.End, Reason: "start after end"}
		case r.Start < prevEnd:
			return "", &ReplaceError{Index: i, Start: r.Start, End: r.End, Reason: "overlaps or precedes previous replacement"}
		}
		prevEnd = r.End
	}

	out := line
	delta := 0
	spans := make([]span, len(reps))
	for i, r := range reps {
		start, end := r.Start+delta, r.End+delta
		out = out[:start] + r.Text + out[end:]
		spans[i] = span{start: start, end: start + len(r.Text)}
		delta += len(r.Text) - (r.End - r.Start)
	}

	if marker.IsZero() {
		return out, nil
	}

	// right to left keeps the recorded spans valid
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		out = out[:s.start] + marker.Open + out[s.start:s.end] + marker.Close + out[s.end:]
	}
	return out, nil
}
