package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/twigcs/pkg/config"
	"github.com/yaklabco/twigcs/pkg/report"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output.
	Color config.ColorMode

	// MinLevel hides violations below this level.
	MinLevel report.Level

	// ShowContext includes the source line under each violation (text format).
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string

	// ToolVersion is reported in machine-readable formats.
	ToolVersion string

	// SniffDescriptions maps sniff IDs to one-line descriptions for SARIF
	// rule metadata.
	SniffDescriptions map[string]string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.FormatText,
		Color:       config.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		ToolVersion: "dev",
	}
}
