package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/twigcs/internal/ui/pretty"
	"github.com/yaklabco/twigcs/pkg/report"
)

func TestFormatTable(t *testing.T) {
	styles := pretty.NewStyles(false)
	f := pretty.NewTableFormatter(styles, 0)

	assert.Empty(t, f.FormatTable(nil))

	groups := [][]pretty.TableRow{
		{
			pretty.NewTableRow("a.twig", report.Violation{Level: report.Error, Message: "first", Line: 1, Position: 4, Sniff: "DelimiterSpacing"}),
			pretty.NewTableRow("a.twig", report.Violation{Level: report.Warning, Message: "second", Line: 7, Sniff: "IncludeTag"}),
		},
		{
			pretty.NewTableRow("b.twig", report.Violation{Level: report.Fatal, Message: "broken", Line: 2}),
		},
	}

	out := f.FormatTable(groups)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7, out)

	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "SNIFF")
	assert.True(t, strings.HasPrefix(lines[1], "====="))
	assert.Contains(t, lines[2], "1:4")
	assert.Contains(t, lines[2], "error")
	assert.Contains(t, lines[2], "DelimiterSpacing")
	assert.Contains(t, lines[3], "warning")
	assert.True(t, strings.HasPrefix(lines[4], "-----"))
	assert.Contains(t, lines[5], "fatal")
	assert.True(t, strings.HasPrefix(lines[6], "====="))
}

func TestFormatTable_FitsTerminal(t *testing.T) {
	f := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	long := strings.Repeat("m", 200)
	out := f.FormatTable([][]pretty.TableRow{{
		pretty.NewTableRow("a.twig", report.Violation{Level: report.Error, Message: long, Line: 1}),
	}})

	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
}

func TestFormatTableSummary(t *testing.T) {
	f := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	got := f.FormatTableSummary(3, map[report.Level]int{report.Error: 2, report.Notice: 1})
	assert.Equal(t, " 3 files checked | 2 errors | 1 notice", got)
}
