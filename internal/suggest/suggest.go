// Package suggest asks a language model for the directive pattern of the
// timestamps in a file and checks the answer before handing it out.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/TommyMandex/timestomper/internal/llm"
	"github.com/TommyMandex/timestomper/internal/preprocess"
	"github.com/TommyMandex/timestomper/internal/prompt"
	"github.com/TommyMandex/timestomper/internal/scan"
	"github.com/TommyMandex/timestomper/internal/strftime"
	"github.com/rs/zerolog"
)

// DefaultSamples is the number of sample lines shown to the model.
const DefaultSamples = 12

// maxAttempts bounds the round trips: one suggestion and one repair.
const maxAttempts = 2

// ErrNoSamples is returned when the input has no non-blank line.
var ErrNoSamples = errors.New("no sample lines")

// RejectedError is returned when no answer of the model survived
// validation.
type RejectedError struct {
	Pattern string
	Problem string
}

func (e *RejectedError) Error() string {
	if e.Pattern == "" {
		return "model did not suggest a usable pattern: " + e.Problem
	}
	return fmt.Sprintf("model suggested %q but %s", e.Pattern, e.Problem)
}

// Options configures a Suggester.
type Options struct {
	Model       string
	Temperature float32

	// Samples is the number of distinct lines shown to the model.
	Samples int

	// Redactor scrubs the samples before they leave the process. Nil
	// sends them as they are.
	Redactor *preprocess.Redactor

	Logger zerolog.Logger
}

// Suggestion is a validated pattern.
type Suggestion struct {
	Pattern  string `json:"pattern"`
	Example  string `json:"example,omitempty"`
	Matched  int    `json:"matched"`
	Sampled  int    `json:"sampled"`
	Attempts int    `json:"attempts"`
	Model    string `json:"model,omitempty"`
}

// Suggester turns sample lines into a directive pattern.
type Suggester struct {
	provider llm.Provider
	opts     Options
}

// New creates a Suggester backed by provider.
func New(provider llm.Provider, opts Options) *Suggester {
	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}
	return &Suggester{provider: provider, opts: opts}
}

type reply struct {
	Pattern string `json:"pattern"`
	Example string `json:"example"`
}

// Suggest picks samples from lines, asks the model for a pattern and
// validates it against the samples. A rejected answer is sent back once
// with the problem found.
func (s *Suggester) Suggest(ctx context.Context, lines, files []string) (*Suggestion, error) {
	samples := preprocess.Sample(lines, s.opts.Samples)
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	shown := append([]string(nil), samples...)
	if s.opts.Redactor != nil {
		shown = s.opts.Redactor.RedactLines(shown)
		s.opts.Logger.Debug().Int("values", s.opts.Redactor.Redacted()).Msg("redacted samples")
	}

	opts := prompt.BuildOptions{Samples: shown, Files: files}
	pt := prompt.TypeSuggestPattern
	var rejected *RejectedError

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		msgs, err := prompt.Build(pt, opts)
		if err != nil {
			return nil, err
		}

		resp, err := s.provider.Chat(ctx, msgs, &llm.ChatOptions{
			Model:       s.opts.Model,
			Temperature: s.opts.Temperature,
			JSON:        true,
		})
		if err != nil {
			return nil, err
		}

		r, problem := decodeReply(resp.Content)
		matched := 0
		if problem == "" {
			matched, problem = check(r.Pattern, samples)
		}

		s.opts.Logger.Debug().
			Int("attempt", attempt).
			Str("pattern", r.Pattern).
			Int("matched", matched).
			Str("problem", problem).
			Msg("model reply checked")

		if problem == "" {
			return &Suggestion{
				Pattern:  r.Pattern,
				Example:  r.Example,
				Matched:  matched,
				Sampled:  len(samples),
				Attempts: attempt,
				Model:    resp.Model,
			}, nil
		}

		rejected = &RejectedError{Pattern: r.Pattern, Problem: problem}
		pt = prompt.TypeRepairPattern
		opts.PreviousReply = resp.Content
		opts.Problem = problem
	}

	return nil, rejected
}

// decodeReply extracts the JSON object from content. Models sometimes wrap
// it in a code fence or a sentence despite being asked not to.
func decodeReply(content string) (reply, string) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return reply{}, "the reply was not a JSON object"
	}

	var r reply
	if err := json.Unmarshal([]byte(content[start:end+1]), &r); err != nil {
		return reply{}, fmt.Sprintf("the reply was not valid JSON (%v)", err)
	}
	if r.Pattern == "" {
		return r, `the reply had no "pattern" field`
	}
	return r, ""
}

// check reports how many samples hold a timestamp that pattern both finds
// and parses. It returns a problem when the pattern is unusable or fits
// fewer than half of the samples.
func check(pattern string, samples []string) (int, string) {
	if !strings.Contains(pattern, "%") {
		return 0, "it has no directives"
	}

	profile, err := scan.ProfileFromFormat(pattern)
	if err != nil {
		return 0, err.Error()
	}
	scanner := scan.New(profile, scan.Options{})

	matched := 0
	for _, line := range samples {
		res := scanner.Find(line)
		if res.Outcome != scan.Found {
			continue
		}
		for _, m := range res.Matches {
			if _, err := strftime.Parse(m.Text, m.Format); err == nil {
				matched++
				break
			}
		}
	}

	if matched == 0 || matched*2 < len(samples) {
		return matched, fmt.Sprintf("it matched %d of %d sample lines", matched, len(samples))
	}
	return matched, ""
}
