package reporter

import (
	"github.com/yaklabco/twigcs/pkg/analysis"
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/runner"
)

func toViolation(v analysis.ViolationEntry) report.Violation {
	return report.Violation{
		Level:    v.Level,
		Message:  v.Message,
		Filename: v.AbsPath,
		Line:     v.Line,
		Position: v.Column,
		Sniff:    v.Sniff,
	}
}

func levelMap(c analysis.Counts) map[report.Level]int {
	return map[report.Level]int{
		report.Notice:  c.Notices,
		report.Warning: c.Warnings,
		report.Error:   c.Errors,
		report.Fatal:   c.Fatals,
	}
}

func statsOf(rep *analysis.Report) runner.Stats {
	return runner.Stats{
		FilesDiscovered:     rep.Totals.Files,
		FilesWithViolations: rep.Totals.FilesWithViolations,
		ViolationsByLevel:   levelMap(rep.Totals.Counts),
	}
}
