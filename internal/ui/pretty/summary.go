package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// levelCounts returns the styled non-zero counts, most severe first.
func (s *Styles) levelCounts(byLevel map[report.Level]int) []string {
	levels := report.Levels()
	parts := make([]string, 0, len(levels))
	for i := len(levels) - 1; i >= 0; i-- {
		l := levels[i]
		if n := byLevel[l]; n > 0 {
			name := strings.ToLower(l.String())
			parts = append(parts, s.LevelStyle(l).Render(fmt.Sprintf("%d %s", n, plural(n, name, name+"s"))))
		}
	}
	return parts
}

func total(byLevel map[report.Level]int) int {
	var n int
	for _, c := range byLevel {
		n += c
	}
	return n
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 violations (2 errors, 3 warnings) in 2 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	count := total(stats.ViolationsByLevel)
	if count == 0 {
		return s.Success.Render("No violations found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesDiscovered, plural(stats.FilesDiscovered, wordFile, wordFiles))) + "\n"
	}

	line := fmt.Sprintf("%d %s (%s) in %d %s",
		count, plural(count, "violation", "violations"),
		strings.Join(s.levelCounts(stats.ViolationsByLevel), ", "),
		stats.FilesWithViolations, plural(stats.FilesWithViolations, wordFile, wordFiles))
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:         " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	if stats.FilesWithViolations > 0 {
		builder.WriteString("  Files with violations: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithViolations)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Total violations:      " +
		s.SummaryValue.Render(strconv.Itoa(total(stats.ViolationsByLevel))) + "\n")

	levels := report.Levels()
	for i := len(levels) - 1; i >= 0; i-- {
		l := levels[i]
		if n := stats.ViolationsByLevel[l]; n > 0 {
			label := fmt.Sprintf("    %-20s", capitalize(l.String())+"s:")
			builder.WriteString(label + s.LevelStyle(l).Render(strconv.Itoa(n)) + "\n")
		}
	}

	builder.WriteString("\n")

	switch {
	case stats.ViolationsByLevel[report.Fatal] > 0 || stats.ViolationsByLevel[report.Error] > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.ViolationsByLevel[report.Warning] > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}
