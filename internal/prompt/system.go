package prompt

import (
	"fmt"
	"strings"

	"github.com/TommyMandex/timestomper/internal/strftime"
)

const suggestSystem = `You are an expert in log and file listing formats. Your task is to find the timestamps in sample lines and describe their layout as a strftime-style directive pattern.

Rules:
1. Use only the directives listed below; anything else is copied literally
2. The pattern must match the timestamp alone, not the text around it
3. Copy separators exactly, including runs of spaces
4. If the lines hold timestamps in more than one layout, describe the most frequent one
5. Never invent directives such as %Q or %L

Reply with a single JSON object and nothing else:

{"pattern": "string, the directive pattern", "example": "string, one timestamp copied from the samples"}

Directives:
`

// systemPrompt renders the system message with the directive reference.
func systemPrompt(directives []strftime.DirectiveInfo) string {
	if len(directives) == 0 {
		directives = strftime.Reference()
	}

	var sb strings.Builder
	sb.WriteString(suggestSystem)
	for _, d := range directives {
		fmt.Fprintf(&sb, "%-4s %s (e.g. %s)\n", d.Directive, d.Meaning, d.Example)
	}
	return sb.String()
}
