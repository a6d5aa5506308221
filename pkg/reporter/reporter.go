// Package reporter renders the result of a lint run in one of the
// supported output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/twigcs/pkg/analysis"
	"github.com/yaklabco/twigcs/pkg/config"
	"github.com/yaklabco/twigcs/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of violations reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	rep := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, rep); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return rep.Totals.Violations, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.MinLevel = opts.MinLevel
	analysisOpts.WorkingDir = opts.WorkingDir
	return &reporterFacade{renderer: renderer, analysisOpts: analysisOpts}
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	var renderer Renderer
	switch format {
	case config.FormatText:
		renderer = NewTextRenderer(opts)
	case config.FormatTable:
		renderer = NewTableRenderer(opts)
	case config.FormatJSON:
		renderer = NewJSONRenderer(opts)
	case config.FormatSARIF:
		renderer = NewSARIFRenderer(opts)
	case config.FormatCheckstyle:
		renderer = NewCheckstyleRenderer(opts)
	case config.FormatSummary:
		renderer = NewSummaryRenderer(opts)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return newRendererFacade(renderer, opts), nil
}
