package presets

import "fmt"

const (
	day   = `(?:[12][0-9]|3[01]|0?[1-9])`
	month = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
)

var builtinProfiles = map[string]ProfileDef{
	"free-osx-ls": {
		Description: "ls -l on macOS and BSD: recent files show the time, older ones the year",
		Specs: []SpecDef{
			{Regex: day + `\s` + month + `\s+(?:[01][0-9]|2[0-3]):[0-5][0-9]`, Format: "%d %b %H:%M"},
			{Regex: day + `\s` + month + `\s+[0-9]{4}`, Format: "%d %b %Y"},
		},
	},
	"free-win-dir-uk": {
		Description: "Windows dir listing, day first",
		Specs:       []SpecDef{{Format: "%d/%m/%Y  %H:%M"}},
	},
	"free-win-dir-us": {
		Description: "Windows dir listing, month first",
		Specs:       []SpecDef{{Format: "%m/%d/%Y  %H:%M"}},
	},
	"syslog": {
		Description: "BSD syslog header",
		Specs:       []SpecDef{{Format: "%b %e %H:%M:%S"}},
	},
	"iso8601": {
		Description: "ISO 8601 date and time, T or space separated",
		Specs: []SpecDef{
			{Format: "%Y-%m-%dT%H:%M:%S"},
			{Format: "%Y-%m-%d %H:%M:%S"},
		},
	},
	"apache-clf": {
		Description: "Apache and nginx common log format",
		Specs:       []SpecDef{{Format: "%d/%b/%Y:%H:%M:%S %z"}},
	},
}

var builtinOutputs = map[string]string{
	"epoch":   "%s",
	"uk":      "%d/%m/%y %H:%M",
	"us":      "%m/%d/%y %H:%M",
	"iso":     "%Y-%m-%d %H:%M:%S",
	"iso8601": "%Y-%m-%dT%H:%M:%S%z",
}

// Builtin returns a catalog holding the built-in presets.
func Builtin() *Catalog {
	c := NewCatalog()
	for name, def := range builtinProfiles {
		if err := c.AddProfile(name, def); err != nil {
			panic(fmt.Sprintf("built-in profile: %v", err))
		}
	}
	for name, pattern := range builtinOutputs {
		if err := c.AddOutput(name, pattern); err != nil {
			panic(fmt.Sprintf("built-in output: %v", err))
		}
	}
	return c
}
