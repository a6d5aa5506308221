package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/twigcs/pkg/report"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 5 // FILE, LOC, LEVEL, MESSAGE, SNIFF
	minFileWidth     = 20
	minLocWidth      = 7
	levelWidth       = 7
	minMessageWidth  = 35
	minSniffWidth    = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// TableRow represents a single row in the violation table.
type TableRow struct {
	File     string
	Location string
	Level    report.Level
	Message  string
	Sniff    string
}

// NewTableRow converts a violation to a table row displayed under path.
func NewTableRow(path string, v report.Violation) TableRow {
	loc := fmt.Sprintf("%d", v.Line)
	if v.Position > 0 {
		loc = fmt.Sprintf("%d:%d", v.Line, v.Position)
	}
	return TableRow{
		File:     path,
		Location: loc,
		Level:    v.Level,
		Message:  v.Message,
		Sniff:    v.Sniff,
	}
}

// TableFormatter formats violations as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	file    int
	loc     int
	message int
	sniff   int
}

// FormatTable formats rows grouped by file. Groups are separated by a
// light rule; an empty input yields an empty string.
func (t *TableFormatter) FormatTable(groups [][]TableRow) string {
	if len(groups) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(groups)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths) + "\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, lightSeparator) + "\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths) + "\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")
	return builder.String()
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(filesChecked int, byLevel map[report.Level]int) string {
	parts := []string{fmt.Sprintf("%d %s checked", filesChecked, plural(filesChecked, wordFile, wordFiles))}
	parts = append(parts, t.styles.levelCounts(byLevel)...)
	return " " + strings.Join(parts, " | ")
}

// calculateColumnWidths determines column widths from content, shrinking
// the message and then the file column to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		loc:     minLocWidth,
		message: minMessageWidth,
		sniff:   minSniffWidth,
	}

	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.loc = max(widths.loc, len(row.Location))
			widths.message = max(widths.message, len(row.Message))
			widths.sniff = max(widths.sniff, len(row.Sniff))
		}
	}

	if totalWidth := t.totalWidth(widths); totalWidth > t.termWidth {
		widths.message = max(minMessageWidth, widths.message-(totalWidth-t.termWidth))
		if totalWidth = t.totalWidth(widths); totalWidth > t.termWidth {
			widths.file = max(minFileWidth, widths.file-(totalWidth-t.termWidth))
		}
	}

	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.file + widths.loc + levelWidth + widths.message + widths.sniff + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.loc, "LOC",
		levelWidth, "LEVEL",
		widths.message, "MESSAGE",
		widths.sniff, "SNIFF",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.totalWidth(widths)))
}

// formatRow formats a single row; padding is applied before styling so
// ANSI sequences do not skew the columns.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	level := fmt.Sprintf("%-*s", levelWidth, strings.ToLower(row.Level.String()))

	return fmt.Sprintf(" %-*s  %-*s  %s  %-*s  %s",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.loc, truncateString(row.Location, widths.loc),
		t.styles.LevelStyle(row.Level).Render(level),
		widths.message, truncateString(row.Message, widths.message),
		t.styles.SniffID.Render(truncateString(row.Sniff, widths.sniff)),
	)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
