package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/twigcs/internal/ui/pretty"
	"github.com/yaklabco/twigcs/pkg/analysis"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableRenderer formats results as a styled table.
type TableRenderer struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableRenderer creates a new table renderer.
func NewTableRenderer(opts Options) *TableRenderer {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &TableRenderer{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, getTerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer.
func (r *TableRenderer) Render(_ context.Context, rep *analysis.Report) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if !rep.Totals.HasViolations() {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("All files passed!"))
			fmt.Fprintln(r.bw, r.styles.Dim.Render(fmt.Sprintf("%d files checked", rep.Totals.Files)))
		}
		return nil
	}

	var groups [][]pretty.TableRow
	for _, group := range groupByFile(rep.Violations) {
		rows := make([]pretty.TableRow, 0, len(group))
		for _, v := range group {
			rows = append(rows, pretty.NewTableRow(v.FilePath, toViolation(v)))
		}
		groups = append(groups, rows)
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(groups))
	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(rep.Totals.Files, levelMap(rep.Totals.Counts)))
	}

	return nil
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
