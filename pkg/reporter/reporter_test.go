package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/twigcs/pkg/config"
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/reporter"
	"github.com/yaklabco/twigcs/pkg/runner"
)

// createTestResult builds a result for two files under dir, one of them
// clean. The dirty file exists on disk so text output can show context.
func createTestResult(t *testing.T) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	dirty := filepath.Join(dir, "dirty.twig")
	clean := filepath.Join(dir, "clean.twig")
	require.NoError(t, os.WriteFile(dirty, []byte("{{a}}\n{% include 'x' %}\n"), 0o600))
	require.NoError(t, os.WriteFile(clean, []byte("{{ a }}\n"), 0o600))

	rep := report.New()
	rep.AddMessage(report.Violation{Level: report.Error, Message: `Expecting 1 whitespace after "{{"; found 0`, Filename: dirty, Line: 1, Position: 3, Sniff: "DelimiterSpacing"})
	rep.AddMessage(report.Violation{Level: report.Warning, Message: "Include tag is deprecated", Filename: dirty, Line: 2, Sniff: "IncludeTag"})
	rep.AddMessage(report.Violation{Level: report.Notice, Message: "deprecated filter", Filename: dirty, Line: 2, Sniff: "Deprecation"})
	rep.AddFile(clean)
	rep.AddFile(dirty)

	result := &runner.Result{Files: []string{clean, dirty}, Report: rep}
	return result, dir
}

func render(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = config.ColorNever

	r, err := reporter.New(opts)
	require.NoError(t, err)

	count, err := r.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), count
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, f := range append(config.Formats(), "") {
		r, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: f})
		require.NoError(t, err, f)
		assert.NotNil(t, r)
	}

	r, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
	assert.Nil(t, r)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{
		Format:      config.FormatText,
		WorkingDir:  dir,
		ShowContext: true,
		ShowSummary: true,
	}, result)

	assert.Equal(t, 3, count)
	assert.Contains(t, out, "dirty.twig (3 violations)")
	assert.Contains(t, out, "  dirty.twig:1:3  error  Expecting 1 whitespace after \"{{\"; found 0  (DelimiterSpacing)\n")
	assert.Contains(t, out, "        {{a}}\n          ^\n")
	assert.Contains(t, out, "dirty.twig:2  notice  deprecated filter  (Deprecation)")
	assert.NotContains(t, out, "clean.twig")
	assert.Contains(t, out, "3 violations (1 error, 1 warning, 1 notice) in 1 file")
}

func TestTextReporter_MinLevel(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{
		Format:     config.FormatText,
		WorkingDir: dir,
		MinLevel:   report.Warning,
	}, result)

	assert.Equal(t, 2, count)
	assert.NotContains(t, out, "deprecated filter")
}

func TestTextReporter_NoFiles(t *testing.T) {
	t.Parallel()

	out, count := render(t, reporter.Options{Format: config.FormatText, ShowSummary: true}, nil)
	assert.Zero(t, count)
	assert.Contains(t, out, "No files to check")

	clean := &runner.Result{Files: []string{"a.twig"}, Report: report.New()}
	out, _ = render(t, reporter.Options{Format: config.FormatText, ShowSummary: true}, clean)
	assert.Equal(t, "No violations found (1 file checked)\n", out)
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{Format: config.FormatTable, WorkingDir: dir, ShowSummary: true}, result)

	assert.Equal(t, 3, count)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "DelimiterSpacing")
	assert.Contains(t, out, "2 files checked | 1 error | 1 warning | 1 notice")

	clean := &runner.Result{Files: []string{"a.twig"}, Report: report.New()}
	out, _ = render(t, reporter.Options{Format: config.FormatTable, ShowSummary: true}, clean)
	assert.Contains(t, out, "All files passed!")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{Format: config.FormatJSON, WorkingDir: dir}, result)
	assert.Equal(t, 3, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	assert.Equal(t, "1.0.0", output.Version)
	require.Len(t, output.Files, 1)
	assert.Equal(t, "dirty.twig", output.Files[0].Path)
	require.Len(t, output.Files[0].Violations, 3)
	assert.Equal(t, reporter.JSONViolation{
		Sniff: "DelimiterSpacing", Level: "error", Message: `Expecting 1 whitespace after "{{"; found 0`, Line: 1, Column: 3,
	}, output.Files[0].Violations[0])
	assert.Equal(t, 2, output.Summary.FilesChecked)
	assert.Equal(t, 1, output.Summary.FilesWithViolations)
	assert.Equal(t, map[string]int{"error": 1, "warning": 1, "notice": 1}, output.Summary.ByLevel)
}

func TestJSONReporter_Empty(t *testing.T) {
	t.Parallel()

	out, count := render(t, reporter.Options{Format: config.FormatJSON, Compact: true}, nil)
	assert.Zero(t, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	assert.Empty(t, output.Files)
	assert.Equal(t, 1, strings.Count(out, "\n"), "compact output is one line")
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{
		Format:            config.FormatSARIF,
		WorkingDir:        dir,
		ToolVersion:       "1.2.3",
		SniffDescriptions: map[string]string{"IncludeTag": "Prefer the include function"},
	}, result)
	assert.Equal(t, 3, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)
	run := output.Runs[0]
	assert.Equal(t, "twigcs", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Tool.Driver.Rules, 3)
	assert.Equal(t, "Prefer the include function", run.Tool.Driver.Rules[1].ShortDescription.Text)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Equal(t, "note", run.Results[2].Level)
	assert.Equal(t, 2, run.Results[2].RuleIndex)
	assert.Equal(t, "dirty.twig", run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, run.Results[0].Locations[0].PhysicalLocation.Region.StartColumn)
}

func TestCheckstyleReporter(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{Format: config.FormatCheckstyle, WorkingDir: dir}, result)
	assert.Equal(t, 3, count)
	assert.True(t, strings.HasPrefix(out, xml.Header))

	var output reporter.CheckstyleOutput
	require.NoError(t, xml.Unmarshal([]byte(out), &output))

	assert.Equal(t, "4.3", output.Version)
	require.Len(t, output.Files, 1)
	assert.Equal(t, "dirty.twig", output.Files[0].Name)
	require.Len(t, output.Files[0].Errors, 3)
	assert.Equal(t, reporter.CheckstyleError{
		Line: 2, Severity: "warning", Message: "Include tag is deprecated", Source: "twigcs.IncludeTag",
	}, output.Files[0].Errors[1])
	assert.Equal(t, "info", output.Files[0].Errors[2].Severity)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	result, dir := createTestResult(t)
	out, count := render(t, reporter.Options{Format: config.FormatSummary, WorkingDir: dir}, result)
	assert.Equal(t, 3, count)

	assert.Contains(t, out, "Sniffs Summary")
	assert.Contains(t, out, "Files Summary")
	assert.Contains(t, out, "DelimiterSpacing")
	assert.Contains(t, out, "dirty.twig")
	assert.Contains(t, out, "Total violations:")
	assert.Contains(t, out, "Lint failed with errors")

	out, _ = render(t, reporter.Options{Format: config.FormatSummary}, &runner.Result{Report: report.New()})
	assert.Equal(t, "No violations found\n", out)
}
