package strftime

import (
	"strconv"
	"strings"
	"time"
)

// Format renders t according to the directive pattern. Zone directives
// render as UTC since timestamps carry no zone of their own.
func Format(t time.Time, pattern string) (string, error) {
	tokens, err := tokenize(pattern)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, tok := range tokens {
		if tok.verb == 0 {
			b.WriteString(tok.literal)
			continue
		}
		b.WriteString(render(t, tok))
	}
	return b.String(), nil
}

func render(t time.Time, tok token) string {
	num := func(v, width int) string {
		if tok.unpadded {
			return strconv.Itoa(v)
		}
		return pad(v, width, '0')
	}

	switch tok.verb {
	case 'a':
		return shortWeekdays[t.Weekday()]
	case 'A':
		return longWeekdays[t.Weekday()]
	case 'b', 'h':
		return shortMonths[t.Month()-1]
	case 'B':
		return longMonths[t.Month()-1]
	case 'd':
		return num(t.Day(), 2)
	case 'e':
		return pad(t.Day(), 2, ' ')
	case 'm':
		return num(int(t.Month()), 2)
	case 'y':
		return pad(t.Year()%100, 2, '0')
	case 'Y':
		return pad(t.Year(), 4, '0')
	case 'H':
		return num(t.Hour(), 2)
	case 'I':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return num(h, 2)
	case 'p':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'M':
		return num(t.Minute(), 2)
	case 'S':
		return num(t.Second(), 2)
	case 'f':
		return pad(t.Nanosecond()/1000, 6, '0')
	case 'z':
		return "+0000"
	case 'Z':
		return "UTC"
	case 'j':
		return num(t.YearDay(), 3)
	case 'U':
		return pad(weekOfYear(t, time.Sunday), 2, '0')
	case 'W':
		return pad(weekOfYear(t, time.Monday), 2, '0')
	case 'w':
		return strconv.Itoa(int(t.Weekday()))
	case 'u':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return strconv.Itoa(wd)
	case 's':
		return strconv.FormatInt(t.Unix(), 10)
	}
	return ""
}

// weekOfYear counts weeks starting on first; days before the first such
// weekday of the year fall in week 0.
func weekOfYear(t time.Time, first time.Weekday) int {
	yday := t.YearDay() - 1
	wd := (int(t.Weekday()) - int(first) + 7) % 7
	return (yday + 7 - wd) / 7
}

func pad(v, width int, fill byte) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(fill), width-len(s)) + s
}
