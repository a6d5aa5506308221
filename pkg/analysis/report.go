package analysis

import (
	"time"

	"github.com/yaklabco/twigcs/pkg/report"
)

// Report contains pre-computed views of lint results.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Violations is the flat list for detailed output, in report order.
	Violations []ViolationEntry `json:"violations,omitempty"`

	// ByFile groups violations by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// BySniff groups violations by sniff.
	BySniff []SniffAnalysis `json:"bySniff,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// ViolationEntry represents a single violation in the report.
type ViolationEntry struct {
	// FilePath is the display path, relative to the working directory when possible.
	FilePath string `json:"filePath"`

	// AbsPath is the path the violation was reported under.
	AbsPath string `json:"-"`

	Sniff   string       `json:"sniff"`
	Level   report.Level `json:"level"`
	Message string       `json:"message"`
	Line    int          `json:"line"`
	Column  int          `json:"column,omitempty"`
}

// Counts holds violation counts per level.
type Counts struct {
	Notices  int `json:"notices"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Fatals   int `json:"fatals"`
}

func (c *Counts) add(level report.Level) {
	switch level {
	case report.Notice:
		c.Notices++
	case report.Warning:
		c.Warnings++
	case report.Error:
		c.Errors++
	case report.Fatal:
		c.Fatals++
	}
}

// Failures returns the number of ERROR and FATAL violations.
func (c Counts) Failures() int {
	return c.Errors + c.Fatals
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Counts

	Files               int `json:"filesChecked"`
	FilesWithViolations int `json:"filesWithViolations"`
	Violations          int `json:"totalViolations"`
}

// HasViolations returns true if there are any violations.
func (t Totals) HasViolations() bool {
	return t.Violations > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Counts

	Path       string   `json:"path"`
	Violations int      `json:"violations"`
	Sniffs     []string `json:"sniffs,omitempty"`
}

// SniffAnalysis contains aggregated data for a single sniff.
type SniffAnalysis struct {
	Counts

	Sniff      string   `json:"sniff"`
	Violations int      `json:"violations"`
	Files      []string `json:"files,omitempty"`
}
