package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/twigcs/internal/logging"
	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/sniff/generic"
)

// Output formats of the sniffs command.
const (
	sniffsFormatText     = "text"
	sniffsFormatJSON     = "json"
	sniffsFormatMarkdown = "markdown"
	sniffsFormatHTML     = "html"
)

// sniffInfo represents a sniff in JSON output.
type sniffInfo struct {
	ID          string `json:"id"`
	Standard    string `json:"standard"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Fixable     bool   `json:"fixable"`
}

func newSniffsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sniffs",
		Short: "List available sniffs",
		Long: `List the sniffs of the Generic standard with their kind, description,
and whether they can fix what they report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := collectSniffs(generic.New().Sniffs())
			out := cmd.OutOrStdout()

			switch format {
			case sniffsFormatText:
				writeSniffsText(out, infos)
				return nil
			case sniffsFormatJSON:
				return writeSniffsJSON(out, infos)
			case sniffsFormatMarkdown:
				_, err := io.WriteString(out, sniffsMarkdown(infos))
				return err
			case sniffsFormatHTML:
				return writeSniffsHTML(out, infos)
			default:
				return exitErrorf(ExitInvalidUsage, "unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", sniffsFormatText, "output format: text, json, markdown, html")

	return cmd
}

func collectSniffs(sniffs []sniff.Sniff) []sniffInfo {
	infos := make([]sniffInfo, 0, len(sniffs))
	for _, s := range sniffs {
		infos = append(infos, sniffInfo{
			ID:          s.ID(),
			Standard:    generic.StandardName,
			Kind:        s.Kind().String(),
			Description: s.Description(),
			Fixable:     s.Fixable(),
		})
	}
	return infos
}

func writeSniffsText(w io.Writer, infos []sniffInfo) {
	logger := logging.NewInteractive(w)
	logger.Info("available sniffs", logging.FieldStandard, generic.StandardName)

	for _, info := range infos {
		fixable := "-"
		if info.Fixable {
			fixable = "yes"
		}
		logger.Info(info.ID,
			logging.FieldKind, info.Kind,
			logging.FieldFixable, fixable,
			logging.FieldDescription, info.Description,
		)
	}
}

func writeSniffsJSON(w io.Writer, infos []sniffInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding sniffs: %w", err)
	}
	return nil
}

// sniffsMarkdown renders the sniff list as a GFM table.
func sniffsMarkdown(infos []sniffInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s standard\n\n", generic.StandardName)
	b.WriteString("| Sniff | Kind | Fixable | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, info := range infos {
		fixable := "no"
		if info.Fixable {
			fixable = "yes"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			info.ID, info.Kind, fixable, strings.ReplaceAll(info.Description, "|", `\|`))
	}
	return b.String()
}

func writeSniffsHTML(w io.Writer, infos []sniffInfo) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(sniffsMarkdown(infos)), &buf); err != nil {
		return fmt.Errorf("render sniffs: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
