package prompt

import (
	"errors"
	"fmt"

	"github.com/TommyMandex/timestomper/internal/strftime"
)

// PromptType identifies the task a prompt asks the model to perform.
type PromptType string

const (
	// TypeSuggestPattern asks for a directive pattern matching the
	// timestamps in the sample lines.
	TypeSuggestPattern PromptType = "suggest_pattern"

	// TypeRepairPattern replays the first exchange and tells the model what
	// was wrong with its answer. It needs PreviousReply and Problem.
	TypeRepairPattern PromptType = "repair_pattern"
)

// BuildOptions holds the context of a prompt.
type BuildOptions struct {
	// Samples are the (redacted) lines shown to the model. Required.
	Samples []string

	// Files are the input paths the samples came from. Optional.
	Files []string

	// Directives is the directive reference included in the system prompt.
	// Defaults to strftime.Reference().
	Directives []strftime.DirectiveInfo

	// PreviousReply is the model's first answer, verbatim.
	// Required for TypeRepairPattern.
	PreviousReply string

	// Problem describes why the previous answer was rejected.
	// Required for TypeRepairPattern.
	Problem string
}

// ErrMissingField is returned by Build when a required field is empty.
var ErrMissingField = errors.New("prompt: missing required field")

func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
