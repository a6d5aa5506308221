package reporter

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/yaklabco/twigcs/pkg/analysis"
	"github.com/yaklabco/twigcs/pkg/report"
)

// checkstyleVersion is the format version understood by CI consumers.
const checkstyleVersion = "4.3"

// CheckstyleOutput is the root <checkstyle> element.
type CheckstyleOutput struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []CheckstyleFile `xml:"file"`
}

// CheckstyleFile groups the errors of one file.
type CheckstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []CheckstyleError `xml:"error"`
}

// CheckstyleError is a single violation.
type CheckstyleError struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr,omitempty"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// CheckstyleRenderer formats results as Checkstyle XML.
type CheckstyleRenderer struct {
	opts Options
	bw   *bufio.Writer
}

// NewCheckstyleRenderer creates a new Checkstyle renderer.
func NewCheckstyleRenderer(opts Options) *CheckstyleRenderer {
	return &CheckstyleRenderer{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer.
func (r *CheckstyleRenderer) Render(_ context.Context, rep *analysis.Report) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := CheckstyleOutput{Version: checkstyleVersion}
	for _, group := range groupByFile(rep.Violations) {
		file := CheckstyleFile{Name: group[0].FilePath}
		for _, v := range group {
			file.Errors = append(file.Errors, CheckstyleError{
				Line:     v.Line,
				Column:   v.Column,
				Severity: levelToCheckstyle(v.Level),
				Message:  v.Message,
				Source:   "twigcs." + v.Sniff,
			})
		}
		output.Files = append(output.Files, file)
	}

	if _, err := r.bw.WriteString(xml.Header); err != nil {
		return fmt.Errorf("write checkstyle: %w", err)
	}
	encoder := xml.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.Indent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode checkstyle: %w", err)
	}
	if _, err := r.bw.WriteString("\n"); err != nil {
		return fmt.Errorf("write checkstyle: %w", err)
	}
	return nil
}

// levelToCheckstyle maps levels onto checkstyle severities; FATAL has no
// counterpart and is reported as error.
func levelToCheckstyle(level report.Level) string {
	switch level {
	case report.Fatal, report.Error:
		return "error"
	case report.Warning:
		return "warning"
	default:
		return "info"
	}
}
