package runner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/twigcs/internal/logging"
	"github.com/yaklabco/twigcs/pkg/linter"
	"github.com/yaklabco/twigcs/pkg/ruleset"
)

// Runner discovers templates and lints them with a Linter.
type Runner struct {
	linter *linter.Linter
	logger *log.Logger
}

// New creates a Runner. A nil logger discards output.
func New(l *linter.Linter, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{linter: l, logger: logger}
}

// Run discovers files per opts and lints them with rs, fixing them first
// when fix is set. Files are processed one at a time in sorted order.
func (r *Runner) Run(ctx context.Context, opts Options, rs *ruleset.Ruleset, fix bool) (*Result, error) {
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("discovered templates",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldPaths, opts.effectivePaths())

	result := &Result{Files: files}

	rep, err := r.linter.Run(ctx, files, rs, fix)
	result.Report = rep
	result.computeStats()
	result.Stats.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	return result, nil
}
