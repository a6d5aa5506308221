package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/twigcs/pkg/config"
)

// envVarPrefix is the prefix for all twigcs environment variables.
const envVarPrefix = "TWIGCS_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LEVEL":      {field: "level", typ: envTypeString, help: "Minimum reported level: notice, warning, error or fatal"},
	"FORMAT":     {field: "format", typ: envTypeString, help: "Output format: text, table, json, sarif, checkstyle or summary"},
	"COLOR":      {field: "color", typ: envTypeString, help: "Colored output: auto, always or never"},
	"FIX":        {field: "fix", typ: envTypeBool, help: "Fix files in place: true or false"},
	"BACKUPS":    {field: "backups", typ: envTypeBool, help: "Keep a backup of fixed files: true or false"},
	"EXCLUDE":    {field: "exclude", typ: envTypeSlice, help: "Comma-separated list of exclude globs"},
	"EXTENSIONS": {field: "extensions", typ: envTypeSlice, help: "Comma-separated list of template extensions"},
	"STUB_TAGS":  {field: "stub_tags", typ: envTypeSlice, help: "Comma-separated list of extension tags to accept"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with TWIGCS_ (e.g., TWIGCS_LEVEL).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "level":
		cfg.Level = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "fix":
		cfg.Fix = value
	case "backups":
		cfg.Backups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "exclude":
		cfg.Exclude = value
	case "extensions":
		cfg.Extensions = value
	case "stub_tags":
		cfg.StubTags = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}
