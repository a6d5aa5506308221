package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/twigcs/internal/ui/pretty"
	"github.com/yaklabco/twigcs/pkg/analysis"
	"github.com/yaklabco/twigcs/pkg/fsutil"
)

// TextRenderer formats results as styled terminal output grouped by file.
type TextRenderer struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	return &TextRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(ctx context.Context, rep *analysis.Report) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if rep.Totals.Files == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return nil
	}

	for _, group := range groupByFile(rep.Violations) {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(group[0].FilePath, len(group)))

		var lines []string
		if r.opts.ShowContext {
			lines = sourceLines(ctx, group[0].AbsPath)
		}

		for _, v := range group {
			var sourceLine string
			if v.Line > 0 && v.Line <= len(lines) {
				sourceLine = lines[v.Line-1]
			}
			fmt.Fprint(r.bw, r.styles.FormatViolation(toViolation(v), v.FilePath, sourceLine))
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(statsOf(rep)))
	}

	return nil
}

// groupByFile splits entries into runs of the same file, keeping order.
func groupByFile(entries []analysis.ViolationEntry) [][]analysis.ViolationEntry {
	var groups [][]analysis.ViolationEntry
	index := make(map[string]int)
	for _, v := range entries {
		i, ok := index[v.AbsPath]
		if !ok {
			i = len(groups)
			index[v.AbsPath] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], v)
	}
	return groups
}

// sourceLines reads path for context display. Failures yield no context.
func sourceLines(ctx context.Context, path string) []string {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.Split(text, "\n")
}
