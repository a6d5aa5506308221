package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/twigcs/pkg/report"
)

// FormatViolation formats a single violation for terminal output. The
// displayed path is given separately so callers can shorten it. When
// sourceLine is non-empty it is printed below with a caret at the column.
func (s *Styles) FormatViolation(v report.Violation, path, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), v.Line)
	if v.Position > 0 {
		location += fmt.Sprintf(":%d", v.Position)
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s", location, s.FormatLevel(v.Level), s.Message.Render(v.Message)))
	if v.Sniff != "" {
		builder.WriteString("  " + s.SniffID.Render("("+v.Sniff+")"))
	}
	builder.WriteString("\n")

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, v.Position))
	}

	return builder.String()
}

// FormatLevel returns a styled lowercase level name.
func (s *Styles) FormatLevel(level report.Level) string {
	return s.LevelStyle(level).Render(strings.ToLower(level.String()))
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	switch {
	case count == 1:
		header += s.Dim.Render(" (1 violation)")
	case count > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d violations)", count))
	}
	return header
}
