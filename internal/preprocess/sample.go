package preprocess

import (
	"strings"
	"unicode"
)

// Shape reduces a line to its layout: letters become 'a', digits become
// '9', and runs of each collapse to one. Punctuation and spaces are kept, so
// "14/07/2009  01:14 a.txt" and "03/08/2019  22:10 b.log" share a shape.
func Shape(line string) string {
	var sb strings.Builder
	var last rune
	for _, r := range line {
		c := r
		switch {
		case unicode.IsDigit(r):
			c = '9'
		case unicode.IsLetter(r):
			c = 'a'
		}
		if (c == '9' || c == 'a') && c == last {
			continue
		}
		sb.WriteRune(c)
		last = c
	}
	return sb.String()
}

// Sample returns up to n lines, at most one per shape, in input order.
// Blank lines are skipped. When fewer than n shapes exist the remaining
// slots are left empty rather than filled with repeats.
func Sample(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		shape := Shape(line)
		if seen[shape] {
			continue
		}
		seen[shape] = true
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}
