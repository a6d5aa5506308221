package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/twigcs/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.DefaultLevel, cfg.Level)
	assert.Equal(t, []string{".twig"}, cfg.Extensions)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.NotNil(t, cfg.Sniffs)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
level: warning
extensions: [.twig, .html.twig]
exclude:
  - "vendor/**"
stub_tags: [cache, trans]
backups: true
sniffs:
  DumpUsage:
    enabled: false
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.Level)
	assert.Equal(t, []string{".twig", ".html.twig"}, cfg.Extensions)
	assert.Equal(t, []string{"vendor/**"}, cfg.Exclude)
	assert.Equal(t, []string{"cache", "trans"}, cfg.StubTags)
	assert.True(t, cfg.Backups)
	require.Contains(t, cfg.Sniffs, "DumpUsage")
	assert.False(t, *cfg.Sniffs["DumpUsage"].Enabled)
}

func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("levle: error\n"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = config.FromYAML([]byte("level: [\n"))
	require.Error(t, err)

	cfg, err := config.FromYAML(nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Sniffs)
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	disabled := false
	cfg := config.NewConfig()
	cfg.Exclude = []string{"cache/**"}
	cfg.Sniffs["IncludeTag"] = config.SniffConfig{Enabled: &disabled}
	cfg.Fix = true

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "fix", "CLI-only fields are not persisted")

	back, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Exclude, back.Exclude)
	assert.False(t, *back.Sniffs["IncludeTag"].Enabled)
	assert.False(t, back.Fix)

	var nilCfg *config.Config
	data, err = nilCfg.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestClone(t *testing.T) {
	t.Parallel()

	enabled := true
	original := config.NewConfig()
	original.Exclude = []string{"a/**"}
	original.Sniffs["BlankEOF"] = config.SniffConfig{Enabled: &enabled}
	original.DisableSniffs = []string{"DumpUsage"}

	clone := original.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, original, clone)

	clone.Exclude[0] = "changed"
	*clone.Sniffs["BlankEOF"].Enabled = false
	clone.DisableSniffs[0] = "changed"

	assert.Equal(t, "a/**", original.Exclude[0])
	assert.True(t, *original.Sniffs["BlankEOF"].Enabled)
	assert.Equal(t, "DumpUsage", original.DisableSniffs[0])

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())
}

func TestSniffEnabled(t *testing.T) {
	t.Parallel()

	off := false
	on := true
	cfg := config.NewConfig()
	cfg.Sniffs["A"] = config.SniffConfig{Enabled: &off}
	cfg.Sniffs["B"] = config.SniffConfig{Enabled: &on}
	cfg.EnableSniffs = []string{"A"}
	cfg.DisableSniffs = []string{"B", "A"}

	tests := []struct {
		id   string
		want bool
	}{
		{"A", false},
		{"B", false},
		{"C", true},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, cfg.SniffEnabled(tc.id), tc.id)
	}

	cfg.DisableSniffs = nil
	assert.True(t, cfg.SniffEnabled("A"), "flags win over the file")
}

func TestFormats(t *testing.T) {
	t.Parallel()

	for _, f := range config.Formats() {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("xml").IsValid())
	assert.True(t, config.ColorNever.IsValid())
	assert.False(t, config.ColorMode("sometimes").IsValid())
}
