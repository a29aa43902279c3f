// Package presets holds the named search profiles and output patterns that
// can be selected on the command line instead of raw directive patterns.
//
// A Catalog starts from the built-in presets and may be extended with YAML
// catalog files:
//
//	profiles:
//	  my-app:
//	    description: my application log
//	    specs:
//	      - format: "[%d/%b/%Y:%H:%M:%S"
//	      - regex: '\d{10}'
//	        format: "%s"
//	outputs:
//	  compact: "%Y%m%d%H%M%S"
package presets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/TommyMandex/timestomper/internal/scan"
	"github.com/TommyMandex/timestomper/internal/strftime"
)

// DefaultOutput is the output preset used when none is given.
const DefaultOutput = "iso"

var (
	// ErrUnknownProfile is returned for a profile name not in the catalog.
	ErrUnknownProfile = errors.New("unknown search profile")

	// ErrUnknownOutput is returned for an output name not in the catalog.
	ErrUnknownOutput = errors.New("unknown output format")
)

// SpecDef is the declarative form of a scan.PatternSpec. An empty Regex is
// compiled from Format.
type SpecDef struct {
	Regex  string `yaml:"regex,omitempty" json:"regex,omitempty"`
	Format string `yaml:"format" json:"format"`
}

// ProfileDef is the declarative form of a scan.Profile.
type ProfileDef struct {
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Specs       []SpecDef `yaml:"specs" json:"specs"`
}

// Compile builds the profile, validating every spec.
func (d ProfileDef) Compile(name string) (scan.Profile, error) {
	if len(d.Specs) == 0 {
		return scan.Profile{}, fmt.Errorf("profile %q: at least one spec is required", name)
	}

	profile := scan.Profile{Name: name}
	for i, s := range d.Specs {
		if s.Format == "" {
			return scan.Profile{}, fmt.Errorf("profile %q spec %d: format is required", name, i)
		}
		spec, err := scan.NewPatternSpec(s.Regex, s.Format)
		if err != nil {
			return scan.Profile{}, fmt.Errorf("profile %q spec %d: %w", name, i, err)
		}
		profile.Specs = append(profile.Specs, spec)
	}
	return profile, nil
}

// Catalog maps preset names to search profiles and output patterns.
type Catalog struct {
	defs     map[string]ProfileDef
	profiles map[string]scan.Profile
	outputs  map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		defs:     make(map[string]ProfileDef),
		profiles: make(map[string]scan.Profile),
		outputs:  make(map[string]string),
	}
}

// AddProfile compiles def and stores it under name, replacing any preset
// with the same name.
func (c *Catalog) AddProfile(name string, def ProfileDef) error {
	if name == "" {
		return errors.New("profile name cannot be empty")
	}
	profile, err := def.Compile(name)
	if err != nil {
		return err
	}
	c.defs[name] = def
	c.profiles[name] = profile
	return nil
}

// AddOutput validates pattern and stores it under name.
func (c *Catalog) AddOutput(name, pattern string) error {
	if name == "" {
		return errors.New("output name cannot be empty")
	}
	if err := strftime.Validate(pattern); err != nil {
		return fmt.Errorf("output %q: %w", name, err)
	}
	c.outputs[name] = pattern
	return nil
}

// Merge copies every preset of other into c, replacing same-named ones.
func (c *Catalog) Merge(other *Catalog) {
	for name, def := range other.defs {
		c.defs[name] = def
		c.profiles[name] = other.profiles[name]
	}
	for name, pattern := range other.outputs {
		c.outputs[name] = pattern
	}
}

// Profile resolves a preset name or a raw directive pattern to a profile.
func (c *Catalog) Profile(nameOrPattern string) (scan.Profile, error) {
	if p, ok := c.profiles[nameOrPattern]; ok {
		return p, nil
	}
	if isPattern(nameOrPattern) {
		return scan.ProfileFromFormat(nameOrPattern)
	}
	return scan.Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, nameOrPattern)
}

// Output resolves a preset name or a raw directive pattern to an output
// pattern.
func (c *Catalog) Output(nameOrPattern string) (string, error) {
	if p, ok := c.outputs[nameOrPattern]; ok {
		return p, nil
	}
	if isPattern(nameOrPattern) {
		if err := strftime.Validate(nameOrPattern); err != nil {
			return "", err
		}
		return nameOrPattern, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutput, nameOrPattern)
}

func isPattern(s string) bool {
	return strings.Contains(s, "%")
}

// ProfileEntry describes a profile for listings.
type ProfileEntry struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Specs       []SpecDef `json:"specs"`
}

// OutputEntry describes an output pattern for listings.
type OutputEntry struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// Profiles lists the profiles sorted by name.
func (c *Catalog) Profiles() []ProfileEntry {
	entries := make([]ProfileEntry, 0, len(c.defs))
	for name, def := range c.defs {
		entries = append(entries, ProfileEntry{Name: name, Description: def.Description, Specs: def.Specs})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Outputs lists the output patterns sorted by name.
func (c *Catalog) Outputs() []OutputEntry {
	entries := make([]OutputEntry, 0, len(c.outputs))
	for name, pattern := range c.outputs {
		entries = append(entries, OutputEntry{Name: name, Pattern: pattern})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
