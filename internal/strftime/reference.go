package strftime

import "time"

// DirectiveInfo documents one supported directive.
type DirectiveInfo struct {
	Directive string `json:"directive"`
	Meaning   string `json:"meaning"`
	Example   string `json:"example"`
}

var reference = []struct{ directive, meaning string }{
	{"%a", "Weekday as an abbreviated name"},
	{"%A", "Weekday as a full name"},
	{"%w", "Weekday as a number, 0 is Sunday"},
	{"%u", "Weekday as a number, 1 is Monday"},
	{"%d", "Day of the month, zero padded"},
	{"%-d", "Day of the month"},
	{"%e", "Day of the month, space padded"},
	{"%b", "Month as an abbreviated name"},
	{"%B", "Month as a full name"},
	{"%m", "Month, zero padded"},
	{"%-m", "Month"},
	{"%y", "Year without century, zero padded"},
	{"%Y", "Year with century"},
	{"%H", "Hour (24-hour clock), zero padded"},
	{"%-H", "Hour (24-hour clock)"},
	{"%I", "Hour (12-hour clock), zero padded"},
	{"%-I", "Hour (12-hour clock)"},
	{"%p", "AM or PM"},
	{"%M", "Minute, zero padded"},
	{"%-M", "Minute"},
	{"%S", "Second, zero padded"},
	{"%-S", "Second"},
	{"%f", "Microsecond, zero padded"},
	{"%z", "UTC offset as +HHMM, matched but not applied"},
	{"%Z", "Time zone name, matched but not applied"},
	{"%j", "Day of the year, zero padded"},
	{"%-j", "Day of the year"},
	{"%U", "Week of the year, Sunday first"},
	{"%W", "Week of the year, Monday first"},
	{"%s", "Seconds since the Unix epoch"},
	{"%F", "Shorthand for %Y-%m-%d"},
	{"%T", "Shorthand for %H:%M:%S"},
	{"%R", "Shorthand for %H:%M"},
	{"%D", "Shorthand for %m/%d/%y"},
	{"%%", "A literal '%' character"},
}

// ReferenceTime is the instant rendered in the examples of Reference.
var ReferenceTime = time.Date(2013, time.September, 30, 7, 6, 5, 0, time.UTC)

// Reference lists every supported directive with ReferenceTime rendered as
// an example.
func Reference() []DirectiveInfo {
	infos := make([]DirectiveInfo, 0, len(reference))
	for _, r := range reference {
		example, err := Format(ReferenceTime, r.directive)
		if err != nil {
			example = ""
		}
		infos = append(infos, DirectiveInfo{Directive: r.directive, Meaning: r.meaning, Example: example})
	}
	return infos
}
