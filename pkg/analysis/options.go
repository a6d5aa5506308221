package analysis

import "github.com/yaklabco/twigcs/pkg/report"

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by violation count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortBySeverity sorts by severity (fatals first).
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// MinLevel drops violations below this level.
	MinLevel report.Level

	// IncludeViolations includes the flat violation list.
	IncludeViolations bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeBySniff includes the per-sniff analysis.
	IncludeBySniff bool

	// SortBy specifies how to sort ByFile and BySniff.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeViolations: true,
		IncludeByFile:     true,
		IncludeBySniff:    true,
		SortBy:            SortByCount,
		SortDesc:          true,
	}
}
