package config

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/leapstack-labs/leapetl/pkg/adapter"
	"github.com/leapstack-labs/leapetl/pkg/transform"
)

// Valid output and log formats.
var (
	OutputFormats = []string{"auto", "text", "markdown", "json"}
	LogFormats    = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	if c.StatePath == "" {
		return errors.New("state_path is required")
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (valid: %v)", c.OutputFormat, OutputFormats)
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (valid: %v)", c.LogFormat, LogFormats)
	}

	for name, ds := range c.Datasets {
		if _, ok := transform.Lookup(name); !ok {
			return fmt.Errorf("unknown dataset %q in datasets (valid: %v)", name, transform.Names())
		}
		if ds.Source == "" {
			return fmt.Errorf("datasets.%s.source is required", name)
		}
		if _, err := ParseDelimiter(ds.Delimiter); err != nil {
			return fmt.Errorf("datasets.%s.delimiter: %w", name, err)
		}
	}
	return nil
}

// ValidateTarget checks that the target names a registered adapter and
// carries what that adapter needs to connect.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return errors.New("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	if !t.IsFileBased() {
		if t.Host == "" {
			return fmt.Errorf("target host is required for %s", t.Type)
		}
		if t.Database == "" {
			return fmt.Errorf("target database is required for %s", t.Type)
		}
	}
	if t.BatchSize < 0 {
		return fmt.Errorf("target batch_size must not be negative, got %d", t.BatchSize)
	}
	return nil
}

// ParseDelimiter converts a configured delimiter to a rune. Empty means ','.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("must be a single character or \"tab\", got %q", s)
	}
	if r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("%q cannot be used as a delimiter", s)
	}
	return r, nil
}
