package prompt

import (
	"fmt"
	"strings"

	"github.com/TommyMandex/timestomper/internal/llm"
)

// Build constructs the messages for pt, ready for any llm.Provider.
//
// TypeSuggestPattern yields [system, user]. TypeRepairPattern yields
// [system, user, assistant, user]: the first exchange is replayed with the
// model's earlier reply prefilled, followed by the problem found with it.
func Build(pt PromptType, opts BuildOptions) ([]llm.Message, error) {
	if len(opts.Samples) == 0 {
		return nil, missingField("Samples")
	}

	system := llm.Message{Role: "system", Content: systemPrompt(opts.Directives)}
	first := llm.Message{Role: "user", Content: userMessage(opts)}

	switch pt {
	case TypeSuggestPattern:
		return []llm.Message{system, first}, nil
	case TypeRepairPattern:
		if opts.PreviousReply == "" {
			return nil, missingField("PreviousReply")
		}
		if opts.Problem == "" {
			return nil, missingField("Problem")
		}
		return []llm.Message{
			system,
			first,
			{Role: "assistant", Content: opts.PreviousReply},
			{Role: "user", Content: repairMessage(opts.Problem)},
		}, nil
	default:
		return nil, fmt.Errorf("prompt: unknown type %q", pt)
	}
}

func userMessage(opts BuildOptions) string {
	var sb strings.Builder

	if len(opts.Files) == 1 {
		fmt.Fprintf(&sb, "Source file: %s\n\n", opts.Files[0])
	} else if len(opts.Files) > 1 {
		fmt.Fprintf(&sb, "Source files (%d): %s\n\n", len(opts.Files), strings.Join(opts.Files, ", "))
	}

	sb.WriteString("Find the timestamp layout in these lines:\n\n")
	for _, s := range opts.Samples {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}

func repairMessage(problem string) string {
	return "That pattern does not work: " + problem + "\n\n" +
		"Look at the sample lines again and reply with a corrected JSON object only."
}
