// Package config provides configuration types and helpers for timestomper.
package config

import "fmt"

// Config holds the application-wide configuration.
type Config struct {
	Format    string          `mapstructure:"format"`
	Verbose   bool            `mapstructure:"verbose"`
	Catalogs  []string        `mapstructure:"catalogs"`
	Convert   ConvertConfig   `mapstructure:"convert"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Redaction RedactionConfig `mapstructure:"redaction"`
}

// ConvertConfig holds the defaults of the convert command.
type ConvertConfig struct {
	Search    string `mapstructure:"search"`    // Profile name or raw directive pattern
	Replace   string `mapstructure:"replace"`   // Output preset name or raw directive pattern
	Outfile   string `mapstructure:"outfile"`   // Output path, "-" for stdout
	Cut       string `mapstructure:"cut"`       // Window in cut syntax
	Year      int    `mapstructure:"year"`      // Year for timestamps without one
	Include   bool   `mapstructure:"include"`   // Pass unconvertible lines through
	Ignore    bool   `mapstructure:"ignore"`    // Drop unconvertible lines
	Highlight string `mapstructure:"highlight"` // auto, always or never
}

// LLMConfig holds configuration for the pattern suggestion model.
type LLMConfig struct {
	Temperature float32      `mapstructure:"temperature"`
	SampleLines int          `mapstructure:"sample_lines"` // Lines of the input shown to the model
	Ollama      OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host      string `mapstructure:"host"`       // API endpoint
	Model     string `mapstructure:"model"`      // Default model name
	KeepAlive string `mapstructure:"keep_alive"` // e.g., "5m"
	NumCtx    int    `mapstructure:"num_ctx"`    // Context window size
}

// RedactionConfig controls scrubbing of sample lines before they are sent
// to the model.
type RedactionConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Available: ipv4, ipv6, email, api_key, aws_key, jwt, private_key, mac_address, uuid
	Patterns []string `mapstructure:"patterns"`
}

// ConfigError reports an invalid setting detected before any output is
// written.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Invalid wraps err as a ConfigError for field. A nil err stays nil.
func Invalid(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Field: field, Err: err}
}
