package configloader

import (
	"maps"

	"github.com/yaklabco/twigcs/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: a true override wins; false cannot unset
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Level != "" {
		result.Level = override.Level
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.Fix {
		result.Fix = true
	}
	if override.Backups {
		result.Backups = true
	}

	result.Sniffs = mergeSniffs(base.Sniffs, override.Sniffs)

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Exclude != nil {
		result.Exclude = override.Exclude
	}
	if override.StubTags != nil {
		result.StubTags = override.StubTags
	}
	if override.EnableSniffs != nil {
		result.EnableSniffs = override.EnableSniffs
	}
	if override.DisableSniffs != nil {
		result.DisableSniffs = override.DisableSniffs
	}

	return &result
}

// mergeSniffs performs deep merge of sniff configurations.
func mergeSniffs(base, override map[string]config.SniffConfig) map[string]config.SniffConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.SniffConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok && val.Enabled == nil {
			result[key] = existing
			continue
		}
		result[key] = val
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
