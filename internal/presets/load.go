package presets

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a catalog file.
type File struct {
	Profiles map[string]ProfileDef `yaml:"profiles"`
	Outputs  map[string]string     `yaml:"outputs"`
}

// LoadFile reads and validates a YAML catalog file.
func LoadFile(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse validates catalog YAML and compiles it.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := NewCatalog()
	for name, def := range f.Profiles {
		if err := c.AddProfile(name, def); err != nil {
			return nil, fmt.Errorf("profiles: %w", err)
		}
	}
	for name, pattern := range f.Outputs {
		if err := c.AddOutput(name, pattern); err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
	}
	return c, nil
}
