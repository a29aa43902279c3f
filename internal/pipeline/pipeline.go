// Package pipeline drives the per-line detect, parse, render and rewrite
// cycle and decides whether each line is emitted, dropped or aborts the run.
//
// Usage:
//
//	p, err := pipeline.New(pipeline.Options{Scanner: sc, Output: "%s", Logger: logger})
//	stats, err := p.Run(ctx, src, sink)
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/TommyMandex/timestomper/internal/rewrite"
	"github.com/TommyMandex/timestomper/internal/scan"
	"github.com/TommyMandex/timestomper/internal/strftime"
	"github.com/rs/zerolog"
)

// Line is one line of input. Ordinal is 1-based and increases per source.
// EOL holds the original terminator ("\n", "\r\n" or "" for an
// unterminated final line).
type Line struct {
	Source  string // Input name, empty when there is only one
	Ordinal int
	Text    string
	EOL     string
}

// Source yields lines in order. Next returns io.EOF once the sequence ends.
type Source interface {
	Next(ctx context.Context) (Line, error)
}

// Sink receives emitted lines. Close is called exactly once per run.
type Sink interface {
	Write(line Line) error
	Close() error
}

// Policy controls what happens to lines that cannot be rewritten.
// Include emits lines without a usable match unchanged, Ignore drops them.
// A match that does not parse is only tolerated under Ignore. Include wins
// when both are set. With neither, the run aborts.
type Policy struct {
	Include bool
	Ignore  bool
}

// State is the position of a line in the processing cycle.
type State int

const (
	Scanning State = iota
	Parsing
	Rewriting
	Emitted
	Dropped
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Parsing:
		return "parsing"
	case Rewriting:
		return "rewriting"
	case Emitted:
		return "emitted"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Options configures a Pipeline.
type Options struct {
	Scanner   *scan.Scanner    // Matches timestamps in each line
	Output    string           // Directive pattern replacements are rendered in
	Year      int              // Year override for year-less timestamps, 0 for none
	Policy    Policy           // Soft error handling
	Highlight rewrite.Marker   // Wraps each replacement when non-zero
	Now       func() time.Time // Clock used for current-year inference
	Logger    zerolog.Logger
}

// Stats counts what happened to the lines of a run. Rewritten counts
// emitted lines whose text changed.
type Stats struct {
	Read      int `json:"read"`
	Emitted   int `json:"emitted"`
	Dropped   int `json:"dropped"`
	Rewritten int `json:"rewritten"`
}

// Pipeline processes lines one at a time.
type Pipeline struct {
	scanner   *scan.Scanner
	output    string
	policy    Policy
	year      strftime.YearPolicy
	highlight rewrite.Marker
	logger    zerolog.Logger
}

// New validates opts and creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Scanner == nil {
		return nil, errors.New("scanner cannot be nil")
	}
	if opts.Output == "" {
		return nil, errors.New("output pattern cannot be empty")
	}
	if err := strftime.Validate(opts.Output); err != nil {
		return nil, fmt.Errorf("output pattern: %w", err)
	}

	return &Pipeline{
		scanner: opts.Scanner,
		output:  opts.Output,
		policy:  opts.Policy,
		year: strftime.YearPolicy{
			Override: opts.Year,
			Soft:     opts.Policy.Ignore,
			Now:      opts.Now,
		},
		highlight: opts.Highlight,
		logger:    opts.Logger,
	}, nil
}

// Process runs a single line through the cycle. It returns the terminal
// state and, when Emitted, the text to write. A non-nil error is fatal for
// the run and is always a *LineError.
func (p *Pipeline) Process(line Line) (State, string, error) {
	res := p.scanner.Find(line.Text)
	if res.Outcome != scan.Found {
		return p.soften(line, Scanning, res.Err())
	}

	reps := make([]rewrite.Replacement, 0, len(res.Matches))
	for _, m := range res.Matches {
		text, err := p.render(m)
		if err != nil {
			return p.soften(line, Parsing, err)
		}
		reps = append(reps, rewrite.Replacement{Start: m.Start, End: m.End, Text: text})
	}

	out, err := rewrite.Apply(line.Text, reps, p.highlight)
	if err != nil {
		// upstream guarantees sorted, in-bounds spans
		return Rewriting, "", newLineError(line, err)
	}
	return Emitted, out, nil
}

// render parses a match, fills in the year and formats it in the output
// pattern.
func (p *Pipeline) render(m scan.Match) (string, error) {
	ts, err := strftime.Parse(m.Text, m.Format)
	if err != nil {
		return "", err
	}
	t, err := p.year.Resolve(ts)
	if err != nil {
		return "", fmt.Errorf("%q: %w", m.Text, err)
	}
	return strftime.Format(t, p.output)
}

// soften applies the policy to a line that could not be rewritten. A match
// that fails to parse is only forgiven under Ignore; Include alone covers
// lines without a usable match.
func (p *Pipeline) soften(line Line, at State, err error) (State, string, error) {
	if at == Parsing && !p.policy.Ignore {
		return at, "", newLineError(line, err)
	}

	switch {
	case p.policy.Include:
		p.logger.Debug().Int("line", line.Ordinal).Stringer("stage", at).Err(err).Msg("passing line through")
		return Emitted, line.Text, nil
	case p.policy.Ignore:
		p.logger.Debug().Int("line", line.Ordinal).Stringer("stage", at).Err(err).Msg("dropping line")
		return Dropped, "", nil
	}
	return at, "", newLineError(line, err)
}

// Run pulls every line from src, writes emitted lines to sink and closes
// sink exactly once, whether the run completes or aborts.
func (p *Pipeline) Run(ctx context.Context, src Source, sink Sink) (stats Stats, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()

	for {
		line, nerr := src.Next(ctx)
		if errors.Is(nerr, io.EOF) {
			break
		}
		if nerr != nil {
			return stats, fmt.Errorf("reading input: %w", nerr)
		}
		stats.Read++

		state, text, perr := p.Process(line)
		if perr != nil {
			p.logger.Error().Int("line", line.Ordinal).Err(perr).Msg("aborting run")
			return stats, perr
		}

		if state == Dropped {
			stats.Dropped++
			continue
		}

		if text != line.Text {
			stats.Rewritten++
		}
		line.Text = text
		if werr := sink.Write(line); werr != nil {
			return stats, fmt.Errorf("writing line %d: %w", line.Ordinal, werr)
		}
		stats.Emitted++
	}

	p.logger.Debug().
		Int("read", stats.Read).
		Int("emitted", stats.Emitted).
		Int("dropped", stats.Dropped).
		Int("rewritten", stats.Rewritten).
		Msg("run complete")
	return stats, nil
}
