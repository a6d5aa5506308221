package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/twigcs/internal/ui/pretty"
	"github.com/yaklabco/twigcs/pkg/analysis"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 90
	sniffColWidth     = 30
	fileColWidth      = 52
	numColWidth       = 8
	maxSniffNameWidth = 28
	maxFilePathLength = 50
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated per-sniff and per-file tables.
type SummaryRenderer struct {
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	return &SummaryRenderer{
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, rep *analysis.Report) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if !rep.Totals.HasViolations() {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No violations found"))
		return nil
	}

	r.renderHeader("Sniffs Summary", "Sniff", sniffColWidth)
	for _, s := range rep.BySniff {
		name := s.Sniff
		if len(name) > maxSniffNameWidth {
			name = name[:maxSniffNameWidth] + "…"
		}
		r.renderRow(name, sniffColWidth, s.Violations, s.Counts)
	}

	fmt.Fprintln(r.bw)

	r.renderHeader("Files Summary", "File", fileColWidth)
	for _, f := range rep.ByFile {
		path := f.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		r.renderRow(path, fileColWidth, f.Violations, f.Counts)
	}

	fmt.Fprintln(r.bw)
	fmt.Fprint(r.bw, r.styles.FormatSummary(statsOf(rep)))

	return nil
}

func (r *SummaryRenderer) renderHeader(title, first string, width int) {
	fmt.Fprintln(r.bw, r.styles.Bold.Render(title))
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
	fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight(first, width)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Fatals", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", numColWidth)),
	)
	fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderRow(name string, width, total int, c analysis.Counts) {
	padded := padRight(name, width)
	switch {
	case c.Fatals > 0:
		padded = r.styles.Fatal.Render(padded)
	case c.Errors > 0:
		padded = r.styles.Error.Render(padded)
	case c.Warnings > 0:
		padded = r.styles.Warning.Render(padded)
	}

	fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
		padded,
		padLeft(strconv.Itoa(total), numColWidth),
		padLeft(strconv.Itoa(c.Fatals), numColWidth),
		padLeft(strconv.Itoa(c.Errors), numColWidth),
		padLeft(strconv.Itoa(c.Warnings), numColWidth),
	)
}
