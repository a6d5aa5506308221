package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/twigcs/internal/ui/pretty"
	"github.com/yaklabco/twigcs/pkg/config"
	"github.com/yaklabco/twigcs/pkg/report"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, l := range report.Levels() {
		assert.Equal(t, "x", styles.LevelStyle(l).Render("x"))
	}
	assert.Equal(t, "x", styles.Bold.Render("x"), "No-color Bold should not add formatting")
}

func TestStyles_AllFieldsInitialized(t *testing.T) {
	styles := pretty.NewStyles(true)

	assert.NotEmpty(t, styles.Fatal.Render("x"))
	assert.NotEmpty(t, styles.Error.Render("x"))
	assert.NotEmpty(t, styles.Warning.Render("x"))
	assert.NotEmpty(t, styles.Notice.Render("x"))
	assert.NotEmpty(t, styles.FilePath.Render("x"))
	assert.NotEmpty(t, styles.SniffID.Render("x"))
	assert.NotEmpty(t, styles.Caret.Render("x"))
	assert.NotEmpty(t, styles.Success.Render("x"))
	assert.NotEmpty(t, styles.TableHeader.Render("x"))
	assert.NotEmpty(t, styles.Dim.Render("x"))
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled(config.ColorAlways, &buf), "always mode should return true")
	assert.False(t, pretty.IsColorEnabled(config.ColorNever, os.Stdout), "never mode should return false")
	assert.False(t, pretty.IsColorEnabled(config.ColorAuto, &buf), "auto mode with non-TTY should return false")
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode behaves like auto")
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled(config.ColorAuto, os.Stdout), "NO_COLOR disables auto color")
	assert.True(t, pretty.IsColorEnabled(config.ColorAlways, os.Stdout), "always ignores NO_COLOR")
}
