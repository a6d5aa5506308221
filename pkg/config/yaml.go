package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Unknown keys are an error.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Sniffs == nil {
		cfg.Sniffs = make(map[string]SniffConfig)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Extensions = cloneStrings(c.Extensions)
	clone.Exclude = cloneStrings(c.Exclude)
	clone.StubTags = cloneStrings(c.StubTags)
	clone.EnableSniffs = cloneStrings(c.EnableSniffs)
	clone.DisableSniffs = cloneStrings(c.DisableSniffs)

	if c.Sniffs != nil {
		clone.Sniffs = make(map[string]SniffConfig, len(c.Sniffs))
		for k, v := range c.Sniffs {
			clone.Sniffs[k] = v.clone()
		}
	}

	return &clone
}

func (sc SniffConfig) clone() SniffConfig {
	if sc.Enabled == nil {
		return SniffConfig{}
	}
	enabled := *sc.Enabled
	return SniffConfig{Enabled: &enabled}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
