package strftime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// YearUnset marks a Timestamp parsed from text that carried no year.
const YearUnset = -1

// Timestamp holds the calendar fields parsed from a timestamp string.
// No time zone is attached; fields are taken at face value.
type Timestamp struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int

	yday int // day of year from %j, applied once the year is known
}

// HasYear reports whether the year field is set.
func (ts Timestamp) HasYear() bool {
	return ts.Year != YearUnset
}

// WithYear returns a copy of ts with the year replaced.
func (ts Timestamp) WithYear(year int) Timestamp {
	ts.Year = year
	return ts
}

// Time builds the instant described by ts in UTC. The year must be set.
func (ts Timestamp) Time() (time.Time, error) {
	if !ts.HasYear() {
		return time.Time{}, ErrMissingYear
	}

	month, day := ts.Month, ts.Day
	if ts.yday > 0 {
		if ts.yday > daysInYear(ts.Year) {
			return time.Time{}, &FormatError{Text: strconv.Itoa(ts.yday), Format: "%j", Reason: "day of year is out of range for year"}
		}
		d := time.Date(ts.Year, time.January, ts.yday, 0, 0, 0, 0, time.UTC)
		month, day = int(d.Month()), d.Day()
	}

	if day > daysIn(month, ts.Year) {
		return time.Time{}, &FormatError{
			Text:   fmt.Sprintf("%04d-%02d-%02d", ts.Year, month, day),
			Format: "%Y-%m-%d",
			Reason: "day is out of range for month",
		}
	}

	return time.Date(ts.Year, time.Month(month), day, ts.Hour, ts.Minute, ts.Second, ts.Nanosecond, time.UTC), nil
}

// Parse converts text into calendar fields according to format. Whitespace
// in format matches one or more whitespace characters, names are matched
// case-insensitively, and zone directives are checked but not applied.
// When format has no year the result has Year == YearUnset.
func Parse(text, format string) (Timestamp, error) {
	tokens, err := tokenize(format)
	if err != nil {
		return Timestamp{}, err
	}

	p := &parser{
		text:   text,
		format: format,
		ts:     Timestamp{Year: YearUnset, Month: 1, Day: 1},
	}

	for _, tok := range tokens {
		if tok.verb == 0 {
			if err := p.literal(tok.literal); err != nil {
				return Timestamp{}, err
			}
			continue
		}
		if err := p.directive(tok); err != nil {
			return Timestamp{}, err
		}
	}

	if p.pos != len(p.text) {
		return Timestamp{}, p.fail("unconverted data remains: " + p.text[p.pos:])
	}

	return p.finish()
}

type parser struct {
	text   string
	format string
	pos    int
	ts     Timestamp

	hour12  bool
	pm      bool
	hasPM   bool
	hasDate bool // month or day given explicitly
}

func (p *parser) fail(reason string) error {
	return &FormatError{Text: p.text, Format: p.format, Reason: reason}
}

func (p *parser) rest() string {
	return p.text[p.pos:]
}

func (p *parser) literal(lit string) error {
	for i := 0; i < len(lit); {
		r, size := utf8.DecodeRuneInString(lit[i:])
		i += size

		if unicode.IsSpace(r) {
			// a run of format whitespace matches any run of text whitespace
			for i < len(lit) {
				next, n := utf8.DecodeRuneInString(lit[i:])
				if !unicode.IsSpace(next) {
					break
				}
				i += n
			}
			if !p.skipSpace() {
				return p.fail("expected whitespace")
			}
			continue
		}

		got, n := utf8.DecodeRuneInString(p.rest())
		if n == 0 || !strings.EqualFold(string(got), string(r)) {
			return p.fail("expected " + string(r))
		}
		p.pos += n
	}
	return nil
}

func (p *parser) skipSpace() bool {
	start := p.pos
	for p.pos < len(p.text) {
		r, n := utf8.DecodeRuneInString(p.rest())
		if !unicode.IsSpace(r) {
			break
		}
		p.pos += n
	}
	return p.pos > start
}

// number reads between minDigits and maxDigits ASCII digits.
func (p *parser) number(minDigits, maxDigits int) (value, digits int, ok bool) {
	for p.pos < len(p.text) && digits < maxDigits {
		c := p.text[p.pos]
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int(c-'0')
		digits++
		p.pos++
	}
	return value, digits, digits >= minDigits
}

// field reads a numeric field and checks it against [lo, hi].
func (p *parser) field(tok token, minDigits, maxDigits, lo, hi int) (int, error) {
	v, _, ok := p.number(minDigits, maxDigits)
	if !ok {
		return 0, p.fail("expected number for " + tok.String())
	}
	if v < lo || v > hi {
		return 0, p.fail(tok.String() + " out of range")
	}
	return v, nil
}

// name matches one of names case-insensitively and returns its index.
func (p *parser) name(tok token, names []string) (int, error) {
	rest := p.rest()
	for i, n := range names {
		if len(rest) >= len(n) && strings.EqualFold(rest[:len(n)], n) {
			p.pos += len(n)
			return i, nil
		}
	}
	return 0, p.fail("expected name for " + tok.String())
}

func (p *parser) directive(tok token) error {
	var err error
	switch tok.verb {
	case 'Y':
		p.ts.Year, err = p.field(tok, 4, 4, 0, 9999)
	case 'y':
		var y int
		if y, err = p.field(tok, 2, 2, 0, 99); err == nil {
			if y < 69 {
				p.ts.Year = 2000 + y
			} else {
				p.ts.Year = 1900 + y
			}
		}
	case 'm':
		p.ts.Month, err = p.field(tok, 1, 2, 1, 12)
		p.hasDate = true
	case 'b', 'h':
		var i int
		i, err = p.name(tok, shortMonths)
		p.ts.Month = i + 1
		p.hasDate = true
	case 'B':
		var i int
		i, err = p.name(tok, longMonths)
		p.ts.Month = i + 1
		p.hasDate = true
	case 'd':
		p.ts.Day, err = p.field(tok, 1, 2, 1, 31)
		p.hasDate = true
	case 'e':
		if strings.HasPrefix(p.rest(), " ") {
			p.pos++
		}
		p.ts.Day, err = p.field(tok, 1, 2, 1, 31)
		p.hasDate = true
	case 'H':
		p.ts.Hour, err = p.field(tok, 1, 2, 0, 23)
	case 'I':
		p.ts.Hour, err = p.field(tok, 1, 2, 1, 12)
		p.hour12 = true
	case 'p':
		var i int
		if i, err = p.name(tok, []string{"AM", "PM"}); err == nil {
			p.pm = i == 1
			p.hasPM = true
		}
	case 'M':
		p.ts.Minute, err = p.field(tok, 1, 2, 0, 59)
	case 'S':
		p.ts.Second, err = p.field(tok, 1, 2, 0, 59)
	case 'f':
		v, digits, ok := p.number(1, 6)
		if !ok {
			return p.fail("expected fraction for %f")
		}
		for ; digits < 9; digits++ {
			v *= 10
		}
		p.ts.Nanosecond = v
	case 'z':
		err = p.offset()
	case 'Z':
		start := p.pos
		for p.pos < len(p.text) && p.pos-start < 5 && isASCIILetter(p.text[p.pos]) {
			p.pos++
		}
		if p.pos-start < 2 {
			err = p.fail("expected zone name for %Z")
		}
	case 'j':
		p.ts.yday, err = p.field(tok, 1, 3, 1, 366)
	case 'U', 'W':
		_, err = p.field(tok, 1, 2, 0, 53)
	case 'w':
		_, err = p.field(tok, 1, 1, 0, 6)
	case 'u':
		_, err = p.field(tok, 1, 1, 1, 7)
	case 'a':
		_, err = p.name(tok, shortWeekdays)
	case 'A':
		_, err = p.name(tok, longWeekdays)
	case 's':
		v, _, ok := p.number(1, 12)
		if !ok {
			return p.fail("expected seconds for %s")
		}
		t := time.Unix(int64(v), 0).UTC()
		p.ts.Year, p.ts.Month, p.ts.Day = t.Year(), int(t.Month()), t.Day()
		p.ts.Hour, p.ts.Minute, p.ts.Second = t.Hour(), t.Minute(), t.Second()
		p.hasDate = true
	default:
		return &UnsupportedDirectiveError{Directive: tok.String()}
	}
	return err
}

// offset consumes "Z", "+hhmm" or "+hh:mm".
func (p *parser) offset() error {
	rest := p.rest()
	if strings.HasPrefix(rest, "Z") || strings.HasPrefix(rest, "z") {
		p.pos++
		return nil
	}
	if rest == "" || (rest[0] != '+' && rest[0] != '-') {
		return p.fail("expected UTC offset for %z")
	}
	p.pos++
	if _, _, ok := p.number(2, 2); !ok {
		return p.fail("expected UTC offset hours for %z")
	}
	if strings.HasPrefix(p.rest(), ":") {
		p.pos++
	}
	if _, _, ok := p.number(2, 2); !ok {
		return p.fail("expected UTC offset minutes for %z")
	}
	return nil
}

func (p *parser) finish() (Timestamp, error) {
	ts := p.ts

	if p.hour12 && p.hasPM {
		ts.Hour %= 12
		if p.pm {
			ts.Hour += 12
		}
	}

	if p.hasDate {
		ts.yday = 0
	}

	if !ts.HasYear() {
		// 29 February is only rejected once the year is known
		if ts.Day > daysIn(ts.Month, 2000) {
			return Timestamp{}, p.fail("day is out of range for month")
		}
		return ts, nil
	}

	if _, err := ts.Time(); err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			return Timestamp{}, p.fail(fe.Reason)
		}
		return Timestamp{}, err
	}
	return ts, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year int) int {
	if isLeap(year) {
		return 366
	}
	return 365
}

func daysIn(month, year int) int {
	switch month {
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
