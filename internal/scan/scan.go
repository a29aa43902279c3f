// Package scan locates timestamp occurrences in a line against a profile of
// alternative patterns.
//
// All matches of every pattern in the profile are merged into a single
// MatchSet ordered by position, so selecting a match by index does not
// depend on which pattern found it.
package scan

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/TommyMandex/timestomper/internal/strftime"
)

// ErrNoMatch is returned by Result.Err when a line holds no timestamp.
var ErrNoMatch = errors.New("no matches")

// MatchIndexError is returned by Result.Err when the requested index does
// not exist among the matches of a line.
type MatchIndexError struct {
	Index int
	Count int
}

func (e *MatchIndexError) Error() string {
	return fmt.Sprintf("index does not exist: %d (line has %d matches)", e.Index, e.Count)
}

// PatternSpec pairs a matcher with the directive pattern used to parse
// whatever it matches.
type PatternSpec struct {
	Regexp *regexp.Regexp
	Format string
}

// NewPatternSpec builds a spec from an explicit regular expression. When
// expr is empty the matcher is compiled from format.
func NewPatternSpec(expr, format string) (PatternSpec, error) {
	if err := strftime.Validate(format); err != nil {
		return PatternSpec{}, err
	}

	if expr == "" {
		re, err := strftime.CompileRegexp(format)
		if err != nil {
			return PatternSpec{}, err
		}
		return PatternSpec{Regexp: re, Format: format}, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return PatternSpec{}, fmt.Errorf("invalid regex for %q: %w", format, err)
	}
	return PatternSpec{Regexp: re, Format: format}, nil
}

// Profile is an ordered set of alternative specs tried against each line.
type Profile struct {
	Name  string
	Specs []PatternSpec
}

// ProfileFromFormat wraps a single raw directive pattern as a profile.
func ProfileFromFormat(format string) (Profile, error) {
	spec, err := NewPatternSpec("", format)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Name: format, Specs: []PatternSpec{spec}}, nil
}

// Match is a located timestamp. Start and End are byte offsets into the
// original line.
type Match struct {
	Spec   int
	Format string
	Start  int
	End    int
	Text   string
}

// MatchSet holds the matches of one line sorted by Start, none overlapping.
type MatchSet []Match

// Outcome tags the result of scanning a line.
type Outcome int

const (
	Found Outcome = iota
	NoMatch
	IndexOutOfRange
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NoMatch:
		return "no match"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of Scanner.Find. Matches is only set when
// Outcome is Found. Count is the number of matches before index selection.
type Result struct {
	Outcome Outcome
	Matches MatchSet
	Count   int
	Index   int
}

// Err returns the error describing a non-Found outcome, or nil.
func (r Result) Err() error {
	switch r.Outcome {
	case NoMatch:
		return ErrNoMatch
	case IndexOutOfRange:
		return &MatchIndexError{Index: r.Index, Count: r.Count}
	}
	return nil
}

// Options restrict and select matches.
type Options struct {
	// Window limits matching to a range of characters. The zero value
	// covers the whole line.
	Window Window

	// Index selects a single match when set. Negative values count from
	// the last match.
	Index *int
}

// Scanner finds the matches of a profile in lines.
type Scanner struct {
	profile Profile
	opts    Options
}

// New creates a Scanner for the given profile.
func New(profile Profile, opts Options) *Scanner {
	return &Scanner{profile: profile, opts: opts}
}

// Profile returns the profile the scanner matches against.
func (s *Scanner) Profile() Profile {
	return s.profile
}

// Find returns every non-overlapping match of the profile within the
// window, or the single match selected by the index option.
func (s *Scanner) Find(line string) Result {
	start, end := s.opts.Window.Bounds(line)
	region := line[start:end]

	var matches MatchSet
	for i, spec := range s.profile.Specs {
		for _, loc := range spec.Regexp.FindAllStringIndex(region, -1) {
			if loc[0] == loc[1] {
				continue
			}
			matches = append(matches, Match{
				Spec:   i,
				Format: spec.Format,
				Start:  start + loc[0],
				End:    start + loc[1],
				Text:   region[loc[0]:loc[1]],
			})
		}
	}

	// specs are scanned one after another, so order by position
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	matches = dropOverlaps(matches)

	if s.opts.Index != nil {
		idx := *s.opts.Index
		pos := idx
		if pos < 0 {
			pos += len(matches)
		}
		if pos < 0 || pos >= len(matches) {
			return Result{Outcome: IndexOutOfRange, Count: len(matches), Index: idx}
		}
		return Result{Outcome: Found, Matches: MatchSet{matches[pos]}, Count: len(matches), Index: idx}
	}

	if len(matches) == 0 {
		return Result{Outcome: NoMatch}
	}
	return Result{Outcome: Found, Matches: matches, Count: len(matches)}
}

// dropOverlaps keeps the earliest of any overlapping matches. Input must be
// sorted by Start.
func dropOverlaps(matches MatchSet) MatchSet {
	if len(matches) < 2 {
		return matches
	}

	kept := matches[:1]
	for _, m := range matches[1:] {
		if m.Start < kept[len(kept)-1].End {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
