package preprocess

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Redactor replaces sensitive values with placeholders. The same value
// always gets the same placeholder, so the model can still tell that two
// lines mention the same host without seeing it.
type Redactor struct {
	patterns     []Pattern
	placeholders map[string]string
}

// NewRedactor creates a Redactor for patterns. A Redactor without patterns
// returns text unchanged.
func NewRedactor(patterns []Pattern) *Redactor {
	return &Redactor{
		patterns:     patterns,
		placeholders: make(map[string]string),
	}
}

// Redact returns text with every sensitive value replaced.
func (r *Redactor) Redact(text string) string {
	for _, p := range r.patterns {
		text = p.Regex.ReplaceAllStringFunc(text, func(match string) string {
			return r.placeholder(match, p.Type)
		})
	}
	return text
}

// RedactLines redacts every line in place and returns the slice.
func (r *Redactor) RedactLines(lines []string) []string {
	for i, line := range lines {
		lines[i] = r.Redact(line)
	}
	return lines
}

// Redacted returns the number of distinct values replaced so far.
func (r *Redactor) Redacted() int {
	return len(r.placeholders)
}

func (r *Redactor) placeholder(value, typ string) string {
	key := typ + "\x00" + normalize(value, typ)
	if ph, ok := r.placeholders[key]; ok {
		return ph
	}

	// first 2 bytes of the digest, 4 hex chars
	h := sha256.Sum256([]byte(key))
	ph := fmt.Sprintf("[%s:%s]", typ, hex.EncodeToString(h[:2]))
	r.placeholders[key] = ph
	return ph
}

func normalize(value, typ string) string {
	switch typ {
	case "EMAIL", "IPV6", "MAC":
		return strings.ToLower(value)
	}
	return value
}
