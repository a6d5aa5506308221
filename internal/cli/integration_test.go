package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/twigcs/internal/cli"
	"github.com/yaklabco/twigcs/pkg/fsutil"
	"github.com/yaklabco/twigcs/pkg/reporter"
)

// dirtyTemplate misses the padding inside both delimiters.
const dirtyTemplate = "{{a}}\n"

// emptyConfig pins the configuration so that a project config found above
// the working directory cannot leak into the tests.
const emptyConfig = "level: notice\n"

// writeFile writes content to name in dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// runCLI executes the root command with an explicit config and returns the
// output and the exit code.
func runCLI(t *testing.T, configContent string, args ...string) (string, int) {
	t.Helper()

	cfgFile := writeFile(t, t.TempDir(), ".twigcs.yml", configContent)

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgFile, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String() + stderr.String(), cli.ExitCode(err)
}

func TestIntegration_LintViolations(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "page.html.twig", dirtyTemplate)

	output, code := runCLI(t, emptyConfig, "lint", "--no-context", file)

	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, "page.html.twig")
	assert.Contains(t, output, `Expecting 1 whitespace after "{{"; found 0`)
	assert.Contains(t, output, "(DelimiterSpacing)")
	assert.Contains(t, output, "2 violations (2 errors) in 1 file")
}

func TestIntegration_CleanDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.twig", "{{ a }}\n")
	writeFile(t, dir, "nested/b.twig", "{% if a %}\n    {{ b }}\n{% endif %}\n")
	writeFile(t, dir, "vendor/c.twig", dirtyTemplate)
	writeFile(t, dir, "notes.md", dirtyTemplate)

	output, code := runCLI(t, emptyConfig, "lint", dir)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, output, "No violations found (2 files checked)")
}

func TestIntegration_Fix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, dir, "a.twig", "{{a}}  \n\n\n{{ f( a ,b ) }}")

	output, code := runCLI(t, emptyConfig, "lint", "--fix", "--backups", file)

	assert.Equal(t, cli.ExitSuccess, code, output)

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "{{ a }}\n\n{{ f(a, b) }}\n", string(got))

	_, err = os.Stat(fsutil.BackupPath(file))
	require.NoError(t, err, "--backups keeps the original")
}

func TestIntegration_Level(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "a.twig", "{{ a|spaceless }}\n{{a}}\n")

	tests := []struct {
		name        string
		level       string
		wantCode    int
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "notices are reported by default",
			level:       "notice",
			wantCode:    cli.ExitLintErrors,
			wantContain: []string{"(Deprecation)", "(DelimiterSpacing)"},
		},
		{
			name:        "warning hides notices",
			level:       "warning",
			wantCode:    cli.ExitLintErrors,
			wantContain: []string{"(DelimiterSpacing)"},
			wantAbsent:  []string{"(Deprecation)"},
		},
		{
			name:       "fatal hides errors and passes",
			level:      "fatal",
			wantCode:   cli.ExitSuccess,
			wantAbsent: []string{"(Deprecation)", "(DelimiterSpacing)"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			output, code := runCLI(t, emptyConfig, "lint", "--level", tc.level, file)

			assert.Equal(t, tc.wantCode, code)
			for _, want := range tc.wantContain {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tc.wantAbsent {
				assert.NotContains(t, output, notWant)
			}
		})
	}
}

func TestIntegration_SyntaxErrorIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.twig", "{% if a %}\n")
	writeFile(t, dir, "ok.twig", "{{ a }}\n")

	output, code := runCLI(t, emptyConfig, "lint", "--level", "fatal", dir)

	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, filepath.Base(broken))
	assert.Contains(t, output, "fatal")
	assert.Contains(t, output, "(Parser)")
	assert.Contains(t, output, "1 violation (1 fatal) in 1 file")
}

func TestIntegration_StubTags(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "a.twig", "{% trans_default_domain 'app' %}\n")

	output, code := runCLI(t, emptyConfig, "lint", file)
	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, `Unknown "trans_default_domain" tag.`)

	output, code = runCLI(t, emptyConfig, "lint", "--stub-tag", "trans_default_domain", file)
	assert.Equal(t, cli.ExitSuccess, code, output)

	output, code = runCLI(t, "stub_tags: [trans_default_domain]\n", "lint", file)
	assert.Equal(t, cli.ExitSuccess, code, output)
}

func TestIntegration_DisableSniff(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "a.twig", dirtyTemplate)

	_, code := runCLI(t, emptyConfig, "lint", "--disable", "DelimiterSpacing", file)
	assert.Equal(t, cli.ExitSuccess, code)

	configContent := `
sniffs:
  DelimiterSpacing:
    enabled: false
`
	_, code = runCLI(t, configContent, "lint", file)
	assert.Equal(t, cli.ExitSuccess, code)

	_, code = runCLI(t, configContent, "lint", "--enable", "DelimiterSpacing", file)
	assert.Equal(t, cli.ExitLintErrors, code, "--enable wins over the config file")
}

func TestIntegration_ExcludeAndExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "legacy/a.twig", dirtyTemplate)
	writeFile(t, dir, "b.html", dirtyTemplate)

	_, code := runCLI(t, emptyConfig, "lint", "--exclude", "legacy/**", dir)
	assert.Equal(t, cli.ExitSuccess, code)

	output, code := runCLI(t, emptyConfig, "lint", "--exclude", "legacy/**", "--ext", ".html", dir)
	assert.Equal(t, cli.ExitLintErrors, code)
	assert.Contains(t, output, "b.html")
}

func TestIntegration_JSONFormat(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "a.twig", dirtyTemplate)

	output, code := runCLI(t, emptyConfig, "lint", "--format", "json", file)
	assert.Equal(t, cli.ExitLintErrors, code)

	var result reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	require.Len(t, result.Files, 1)
	assert.Len(t, result.Files[0].Violations, 2)
	assert.Equal(t, 1, result.Summary.FilesChecked)
}

func TestIntegration_Errors(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "a.twig", dirtyTemplate)

	tests := []struct {
		name     string
		config   string
		args     []string
		wantCode int
	}{
		{"unknown format", emptyConfig, []string{"lint", "--format", "xml", file}, cli.ExitConfigError},
		{"invalid level", emptyConfig, []string{"lint", "--level", "loud", file}, cli.ExitConfigError},
		{"invalid config file", "level: loud\n", []string{"lint", file}, cli.ExitConfigError},
		{"unknown config key", "flavor: gfm\n", []string{"lint", file}, cli.ExitConfigError},
		{"missing path", emptyConfig, []string{"lint", filepath.Join(t.TempDir(), "missing.twig")}, cli.ExitInvalidUsage},
		{"unknown flag", emptyConfig, []string{"lint", "--strict", file}, cli.ExitInvalidUsage},
		{"unknown command", emptyConfig, []string{"check", file}, cli.ExitInvalidUsage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, code := runCLI(t, tc.config, tc.args...)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}

func TestIntegration_SniffsCommand(t *testing.T) {
	t.Parallel()

	output, code := runCLI(t, emptyConfig, "sniffs", "--format", "json")
	require.Equal(t, cli.ExitSuccess, code)

	var sniffs []struct {
		ID      string `json:"id"`
		Kind    string `json:"kind"`
		Fixable bool   `json:"fixable"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &sniffs))
	require.Len(t, sniffs, 8)
	assert.Equal(t, "DelimiterSpacing", sniffs[0].ID)
	assert.Equal(t, "token", sniffs[0].Kind)
	assert.True(t, sniffs[0].Fixable)

	output, code = runCLI(t, emptyConfig, "sniffs", "--format", "markdown")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, output, "# Generic standard")
	assert.Contains(t, output, "| `DumpUsage` | ast | no |")

	output, code = runCLI(t, emptyConfig, "sniffs", "--format", "html")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, output, "<h1>Generic standard</h1>")
	assert.Contains(t, output, "<table>")
	assert.Contains(t, output, "<code>IncludeTag</code>")

	output, code = runCLI(t, emptyConfig, "sniffs")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, output, "EmptyLines")

	_, code = runCLI(t, emptyConfig, "sniffs", "--format", "yaml")
	assert.Equal(t, cli.ExitInvalidUsage, code)
}
