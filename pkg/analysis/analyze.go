// Package analysis aggregates a run's violations into the views the
// reporters render: a flat list, per-file and per-sniff breakdowns, and
// totals.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// MakeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func MakeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	sniffMap   map[string]*SniffAnalysis
	fileMap    map[string]*FileAnalysis
	sniffFiles map[string]map[string]bool
	fileSniffs map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		sniffMap:   make(map[string]*SniffAnalysis),
		fileMap:    make(map[string]*FileAnalysis),
		sniffFiles: make(map[string]map[string]bool),
		fileSniffs: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileSniffs[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) sniff(id string) *SniffAnalysis {
	if _, ok := ctx.sniffMap[id]; !ok {
		ctx.sniffMap[id] = &SniffAnalysis{Sniff: id}
		ctx.sniffFiles[id] = make(map[string]bool)
	}
	return ctx.sniffMap[id]
}

func (ctx *analysisContext) buildBySniff(opts Options) []SniffAnalysis {
	result := make([]SniffAnalysis, 0, len(ctx.sniffMap))
	for id, sa := range ctx.sniffMap {
		for f := range ctx.sniffFiles[id] {
			sa.Files = append(sa.Files, f)
		}
		slices.Sort(sa.Files)
		result = append(result, *sa)
	}
	slices.SortFunc(result, func(left, right SniffAnalysis) int {
		return compare(opts, left.Sniff, right.Sniff, left.Counts, right.Counts, left.Violations, right.Violations)
	})
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	result := make([]FileAnalysis, 0, len(ctx.fileMap))
	for path, fa := range ctx.fileMap {
		for s := range ctx.fileSniffs[path] {
			fa.Sniffs = append(fa.Sniffs, s)
		}
		slices.Sort(fa.Sniffs)
		result = append(result, *fa)
	}
	slices.SortFunc(result, func(left, right FileAnalysis) int {
		return compare(opts, left.Path, right.Path, left.Counts, right.Counts, left.Violations, right.Violations)
	})
	return result
}

// compare orders two groups by opts.SortBy. Ties fall back to the name so
// the output is deterministic.
func compare(opts Options, leftName, rightName string, left, right Counts, leftTotal, rightTotal int) int {
	var result int
	switch opts.SortBy {
	case SortByAlpha:
	case SortBySeverity:
		result = cmp.Compare(right.Fatals, left.Fatals)
		if result == 0 {
			result = cmp.Compare(right.Errors, left.Errors)
		}
		if result == 0 {
			result = cmp.Compare(right.Warnings, left.Warnings)
		}
		if result == 0 {
			result = cmp.Compare(rightTotal, leftTotal)
		}
	default: // SortByCount
		result = cmp.Compare(leftTotal, rightTotal)
		if opts.SortDesc {
			result = -result
		}
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through the violations to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	rep := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil || result.Report == nil {
		return rep
	}

	ctx := newAnalysisContext()
	rep.Totals.Files = len(result.Files)

	for _, v := range result.Report.Messages(report.Filter{MinLevel: opts.MinLevel}) {
		displayPath := MakeRelativePath(v.Filename, opts.WorkingDir)

		rep.Totals.Violations++
		rep.Totals.add(v.Level)

		fa := ctx.file(displayPath)
		fa.Violations++
		fa.add(v.Level)
		ctx.fileSniffs[displayPath][v.Sniff] = true

		sa := ctx.sniff(v.Sniff)
		sa.Violations++
		sa.add(v.Level)
		ctx.sniffFiles[v.Sniff][displayPath] = true

		if opts.IncludeViolations {
			rep.Violations = append(rep.Violations, ViolationEntry{
				FilePath: displayPath,
				AbsPath:  v.Filename,
				Sniff:    v.Sniff,
				Level:    v.Level,
				Message:  v.Message,
				Line:     v.Line,
				Column:   v.Position,
			})
		}
	}
	rep.Totals.FilesWithViolations = len(ctx.fileMap)

	if opts.IncludeBySniff {
		rep.BySniff = ctx.buildBySniff(opts)
	}
	if opts.IncludeByFile {
		rep.ByFile = ctx.buildByFile(opts)
	}

	return rep
}
