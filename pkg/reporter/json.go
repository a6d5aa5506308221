package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/twigcs/pkg/analysis"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's violations.
type JSONFileResult struct {
	Path       string          `json:"path"`
	Violations []JSONViolation `json:"violations"`
}

// JSONViolation represents a single violation.
type JSONViolation struct {
	Sniff   string `json:"sniff"`
	Level   string `json:"level"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked        int            `json:"filesChecked"`
	FilesWithViolations int            `json:"filesWithViolations"`
	TotalViolations     int            `json:"totalViolations"`
	ByLevel             map[string]int `json:"byLevel"`
}

// JSONRenderer formats results as JSON.
type JSONRenderer struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, rep *analysis.Report) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(buildJSONOutput(rep)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func buildJSONOutput(rep *analysis.Report) *JSONOutput {
	output := &JSONOutput{
		Version: rep.Version,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			FilesChecked:        rep.Totals.Files,
			FilesWithViolations: rep.Totals.FilesWithViolations,
			TotalViolations:     rep.Totals.Violations,
			ByLevel:             make(map[string]int),
		},
	}

	for level, n := range levelMap(rep.Totals.Counts) {
		if n > 0 {
			text, _ := level.MarshalText()
			output.Summary.ByLevel[string(text)] = n
		}
	}

	for _, group := range groupByFile(rep.Violations) {
		file := JSONFileResult{
			Path:       group[0].FilePath,
			Violations: make([]JSONViolation, 0, len(group)),
		}
		for _, v := range group {
			text, _ := v.Level.MarshalText()
			file.Violations = append(file.Violations, JSONViolation{
				Sniff:   v.Sniff,
				Level:   string(text),
				Message: v.Message,
				Line:    v.Line,
				Column:  v.Column,
			})
		}
		output.Files = append(output.Files, file)
	}

	return output
}
