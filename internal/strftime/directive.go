// Package strftime compiles, parses and renders strftime-style directive
// patterns such as "%d/%m/%Y  %H:%M".
//
// A pattern is compiled into a regular expression whose fields are bounded
// to their legal ranges, so "%H" matches 00-23 and never swallows a third
// digit from an adjacent number. The same pattern is then used to parse the
// matched text into calendar fields and to render a time in another pattern.
//
// Supported directives:
//
//	%a %A  weekday name (abbreviated, full)
//	%b %h  abbreviated month name
//	%B     full month name
//	%d %-d day of month (zero padded, unpadded)
//	%e     day of month, space padded
//	%m %-m month number
//	%y %Y  year (two digit, four digit)
//	%H %-H hour, 24-hour clock
//	%I %-I hour, 12-hour clock
//	%p     AM or PM
//	%M %-M minute
//	%S %-S second
//	%f     fraction of a second, up to six digits
//	%z %Z  UTC offset and zone name (matched textually, never applied)
//	%j %-j day of year
//	%U %W  week of year
//	%w %u  weekday number
//	%s     seconds since the Unix epoch
//	%F %T %R %D  shorthands for %Y-%m-%d, %H:%M:%S, %H:%M and %m/%d/%y
//	%%     a literal percent sign
package strftime

import (
	"strings"
)

// Fixed English name tables, indexed by time.Weekday and time.Month-1.
var (
	shortWeekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	longWeekdays  = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	shortMonths   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	longMonths    = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

// directive describes the regex fragments for a single format verb.
type directive struct {
	expr     string // fragment for the standard (usually zero padded) form
	unpadded string // fragment for the "%-x" form, empty when not supported
}

var directives = map[byte]directive{
	'a': {expr: alternation(shortWeekdays)},
	'A': {expr: alternation(longWeekdays)},
	'b': {expr: alternation(shortMonths)},
	'h': {expr: alternation(shortMonths)},
	'B': {expr: alternation(longMonths)},
	'd': {expr: `(?:0[1-9]|[12][0-9]|3[01])`, unpadded: `(?:[12][0-9]|3[01]|0?[1-9])`},
	'e': {expr: `(?: [1-9]|[12][0-9]|3[01])`},
	'm': {expr: `(?:0[1-9]|1[0-2])`, unpadded: `(?:1[0-2]|0?[1-9])`},
	'y': {expr: `[0-9]{2}`},
	'Y': {expr: `[0-9]{4}`},
	'H': {expr: `(?:[01][0-9]|2[0-3])`, unpadded: `(?:1[0-9]|2[0-3]|0?[0-9])`},
	'I': {expr: `(?:0[1-9]|1[0-2])`, unpadded: `(?:1[0-2]|0?[1-9])`},
	'p': {expr: `(?:AM|PM|am|pm)`},
	'M': {expr: `[0-5][0-9]`, unpadded: `(?:[1-5][0-9]|0?[0-9])`},
	'S': {expr: `[0-5][0-9]`, unpadded: `(?:[1-5][0-9]|0?[0-9])`},
	'f': {expr: `[0-9]{1,6}`},
	'z': {expr: `(?:Z|[+-](?:[01][0-9]|2[0-3]):?[0-5][0-9])`},
	'Z': {expr: `[A-Z]{2,5}`},
	'j': {expr: `(?:00[1-9]|0[1-9][0-9]|[12][0-9]{2}|3[0-5][0-9]|36[0-6])`, unpadded: `(?:3[0-5][0-9]|36[0-6]|[12][0-9]{2}|[1-9][0-9]|[1-9])`},
	'U': {expr: `(?:[0-4][0-9]|5[0-3])`},
	'W': {expr: `(?:[0-4][0-9]|5[0-3])`},
	'w': {expr: `[0-6]`},
	'u': {expr: `[1-7]`},
	's': {expr: `[0-9]{1,12}`},
}

// shorthands expand into other directives before compiling or parsing.
var shorthands = map[byte]string{
	'F': "%Y-%m-%d",
	'T': "%H:%M:%S",
	'R': "%H:%M",
	'D': "%m/%d/%y",
}

func alternation(names []string) string {
	return "(?:" + strings.Join(names, "|") + ")"
}

// token is either a literal run of text (verb == 0) or a directive.
type token struct {
	literal  string
	verb     byte
	unpadded bool
}

func (t token) String() string {
	if t.verb == 0 {
		return t.literal
	}
	if t.unpadded {
		return "%-" + string(t.verb)
	}
	return "%" + string(t.verb)
}

// tokenize splits a directive pattern into literals and directives.
func tokenize(pattern string) ([]token, error) {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}

		if i+1 >= len(pattern) {
			return nil, &UnsupportedDirectiveError{Directive: "%"}
		}
		i++
		verb := pattern[i]

		if verb == '%' {
			lit.WriteByte('%')
			continue
		}

		unpadded := false
		if verb == '-' {
			if i+1 >= len(pattern) {
				return nil, &UnsupportedDirectiveError{Directive: "%-"}
			}
			i++
			verb = pattern[i]
			unpadded = true
		}

		if expansion, ok := shorthands[verb]; ok && !unpadded {
			flush()
			expanded, err := tokenize(expansion)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, expanded...)
			continue
		}

		d, ok := directives[verb]
		if !ok || (unpadded && d.unpadded == "") {
			tok := token{verb: verb, unpadded: unpadded}
			return nil, &UnsupportedDirectiveError{Directive: tok.String()}
		}

		flush()
		tokens = append(tokens, token{verb: verb, unpadded: unpadded})
	}

	flush()
	return tokens, nil
}

// Validate reports whether every directive in pattern is supported.
func Validate(pattern string) error {
	_, err := tokenize(pattern)
	return err
}

// HasYear reports whether pattern carries enough information to determine
// the year on its own (%Y, %y or %s).
func HasYear(pattern string) bool {
	tokens, err := tokenize(pattern)
	if err != nil {
		return false
	}
	for _, tok := range tokens {
		switch tok.verb {
		case 'Y', 'y', 's':
			return true
		}
	}
	return false
}
