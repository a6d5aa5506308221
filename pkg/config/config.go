// Package config defines the configuration types for twigcs.
// These types are plain data; loading and merging live in internal/configloader.
package config

import "slices"

// OutputFormat specifies the output format for violations.
type OutputFormat string

const (
	FormatText       OutputFormat = "text"
	FormatTable      OutputFormat = "table"
	FormatJSON       OutputFormat = "json"
	FormatSARIF      OutputFormat = "sarif"
	FormatCheckstyle OutputFormat = "checkstyle"
	FormatSummary    OutputFormat = "summary"
)

// Formats returns every supported output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatTable, FormatJSON, FormatSARIF, FormatCheckstyle, FormatSummary}
}

// IsValid reports whether f is a supported format.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(Formats(), f)
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is a supported color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// DefaultExtension is the template extension linted by default.
const DefaultExtension = ".twig"

// DefaultLevel is the default minimum reported level.
const DefaultLevel = "notice"

// SniffConfig holds per-sniff configuration.
type SniffConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// Config is the root configuration structure for twigcs.
type Config struct {
	// Level is the minimum level reported: notice, warning, error or fatal.
	Level string `yaml:"level"`

	// Extensions lists the file extensions discovered in directories.
	Extensions []string `yaml:"extensions"`

	// Exclude contains glob patterns for paths to skip.
	Exclude []string `yaml:"exclude"`

	// StubTags lists extension tags the parser accepts without knowing them.
	StubTags []string `yaml:"stub_tags"`

	// Sniffs contains per-sniff configuration keyed by sniff ID.
	Sniffs map[string]SniffConfig `yaml:"sniffs"`

	// Backups keeps a copy of each file rewritten by --fix.
	Backups bool `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix enables fixing files in place.
	Fix bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Color controls colored output.
	Color ColorMode `yaml:"-"`

	// EnableSniffs contains sniff IDs to explicitly enable.
	EnableSniffs []string `yaml:"-"`

	// DisableSniffs contains sniff IDs to explicitly disable.
	DisableSniffs []string `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Level:      DefaultLevel,
		Extensions: []string{DefaultExtension},
		Sniffs:     make(map[string]SniffConfig),
		Format:     FormatText,
		Color:      ColorAuto,
	}
}

// SniffEnabled reports whether the sniff with the given ID should run.
// CLI flags win over the sniffs section; sniffs are enabled by default.
func (c *Config) SniffEnabled(id string) bool {
	if slices.Contains(c.DisableSniffs, id) {
		return false
	}
	if slices.Contains(c.EnableSniffs, id) {
		return true
	}
	if sc, ok := c.Sniffs[id]; ok && sc.Enabled != nil {
		return *sc.Enabled
	}
	return true
}
