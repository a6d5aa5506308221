package configloader

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/twigcs/pkg/config"
	"github.com/yaklabco/twigcs/pkg/report"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "sniffs.EmptyLines").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown sniffs).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks a configuration for errors and warnings. Sniff IDs are
// checked against knownSniffs when it is non-nil.
func Validate(cfg *config.Config, knownSniffs []string) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Level != "" {
		if _, err := report.ParseLevel(cfg.Level); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "level",
				Value:   cfg.Level,
				Message: fmt.Sprintf("invalid level %q; must be one of: notice, warning, error, fatal", cfg.Level),
			})
		}
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: %s", cfg.Format, formatList()),
		})
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("invalid extension %q; must start with a dot", ext),
			})
		}
	}

	for i, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("exclude[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}

	if knownSniffs != nil {
		validateSniffs(cfg, knownSniffs, result)
	}

	return result
}

// validateSniffs warns about sniff IDs that no standard provides.
func validateSniffs(cfg *config.Config, known []string, result *ValidationResult) {
	ids := make([]string, 0, len(cfg.Sniffs))
	for id := range cfg.Sniffs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !slices.Contains(known, id) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "sniffs." + id,
				Value:   id,
				Message: fmt.Sprintf("unknown sniff %q; it will be ignored", id),
			})
		}
	}

	for _, id := range append(slices.Clone(cfg.EnableSniffs), cfg.DisableSniffs...) {
		if !slices.Contains(known, id) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "sniff",
				Value:   id,
				Message: fmt.Sprintf("unknown sniff %q; it will be ignored", id),
			})
		}
	}
}

func formatList() string {
	names := make([]string, 0, len(config.Formats()))
	for _, f := range config.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
