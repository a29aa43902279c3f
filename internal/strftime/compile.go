package strftime

import (
	"fmt"
	"regexp"
	"strings"
)

// Compile turns a directive pattern into regular expression text. Literal
// text is escaped and every directive is replaced by a character class or
// alternation bounded to the legal range of its field.
func Compile(pattern string) (string, error) {
	tokens, err := tokenize(pattern)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, tok := range tokens {
		if tok.verb == 0 {
			b.WriteString(regexp.QuoteMeta(tok.literal))
			continue
		}

		d := directives[tok.verb]
		if tok.unpadded {
			b.WriteString(d.unpadded)
		} else {
			b.WriteString(d.expr)
		}
	}

	return b.String(), nil
}

// CompileRegexp compiles pattern and returns the ready-to-use matcher.
func CompileRegexp(pattern string) (*regexp.Regexp, error) {
	expr, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}
	return re, nil
}

// MustCompile is like CompileRegexp but panics on error. It is meant for
// package-level presets.
func MustCompile(pattern string) *regexp.Regexp {
	re, err := CompileRegexp(pattern)
	if err != nil {
		panic(err)
	}
	return re
}
