package runner

import (
	"time"

	"github.com/yaklabco/twigcs/pkg/report"
)

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the number of templates found during discovery.
	FilesDiscovered int

	// FilesWithViolations is the number of files with at least one violation.
	FilesWithViolations int

	// ViolationsByLevel maps levels to violation counts.
	ViolationsByLevel map[report.Level]int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files lists the discovered templates in processing order.
	Files []string

	// Report holds the violations of every file.
	Report *report.Report

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

func (r *Result) computeStats() {
	r.Stats.FilesDiscovered = len(r.Files)
	if r.Report == nil {
		return
	}

	r.Stats.ViolationsByLevel = r.Report.Totals()
	withViolations := make(map[string]struct{})
	for _, v := range r.Report.Messages(report.Filter{}) {
		withViolations[v.Filename] = struct{}{}
	}
	r.Stats.FilesWithViolations = len(withViolations)
}
