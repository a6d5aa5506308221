// Package linter runs a ruleset over Twig templates and collects the
// violations into a report.
//
// A run optionally fixes every file first. Each file is then tokenized,
// parsed, and handed to the token sniffs and the AST sniffs, in that order.
// Lexing and syntax errors become FATAL violations for their file and the
// run moves on to the next one.
package linter

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/twigcs/internal/logging"
	"github.com/yaklabco/twigcs/pkg/fixer"
	"github.com/yaklabco/twigcs/pkg/fsutil"
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/ruleset"
	"github.com/yaklabco/twigcs/pkg/sniff"
	"github.com/yaklabco/twigcs/pkg/tokenizer"
	"github.com/yaklabco/twigcs/pkg/twig"
)

// Sniff names used for violations that no sniff reported.
const (
	SniffLexer       = "Lexer"
	SniffParser      = "Parser"
	SniffDeprecation = "Deprecation"
)

// Linter lints templates against a ruleset.
type Linter struct {
	env       *twig.Environment
	logger    *log.Logger
	fixerOpts []fixer.Option
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. It is passed on to the fixer.
func WithLogger(l *log.Logger) Option {
	return func(lt *Linter) {
		if l != nil {
			lt.logger = l
		}
	}
}

// WithFixerOptions adds options for the fixer used in fix mode.
func WithFixerOptions(opts ...fixer.Option) Option {
	return func(lt *Linter) {
		lt.fixerOpts = append(lt.fixerOpts, opts...)
	}
}

// New creates a Linter using env to tokenize and parse.
func New(env *twig.Environment, opts ...Option) *Linter {
	l := &Linter{
		env:    env,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run lints files with rs. With fix set, every file is fixed in place
// first; the first fixer failure aborts the run. The context is checked
// between files.
func (l *Linter) Run(ctx context.Context, files []string, rs *ruleset.Ruleset, fix bool) (*report.Report, error) {
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}

	if fix {
		if err := l.fixAll(ctx, files, rs); err != nil {
			return nil, err
		}
	}

	rep := report.New()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("lint: %w", err)
		}

		content, _, err := fsutil.ReadFile(ctx, file)
		if err != nil {
			return rep, fmt.Errorf("lint: %w", err)
		}
		if err := l.ProcessSource(rep, rs, file, string(content)); err != nil {
			return rep, err
		}
		rep.AddFile(file)
	}

	l.logger.Debug("lint finished",
		logging.FieldFilesProcessed, rep.TotalFiles(),
		logging.FieldViolations, rep.TotalMessages(),
		logging.FieldFatals, rep.TotalFatals())
	return rep, nil
}

func (l *Linter) fixAll(ctx context.Context, files []string, rs *ruleset.Ruleset) error {
	opts := append([]fixer.Option{fixer.WithLogger(l.logger)}, l.fixerOpts...)
	f := fixer.New(rs, l.env.Tokenizer(), opts...)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		if err := f.FixFile(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// ProcessSource lints source as filename and adds the violations to rep.
// It does not register the file with rep. Only sniff failures are returned.
func (l *Linter) ProcessSource(rep *report.Report, rs *ruleset.Ruleset, filename, source string) error {
	stream, err := l.env.Tokenize(source, filename)
	if err != nil {
		var lexErr *tokenizer.LexError
		if !errors.As(err, &lexErr) {
			return fmt.Errorf("tokenize %s: %w", filename, err)
		}
		rep.AddMessage(report.Violation{
			Level:    report.Fatal,
			Message:  lexErr.Message,
			Filename: filename,
			Line:     lexErr.Line,
			Position: lexErr.Column,
			Sniff:    SniffLexer,
		})
		l.logger.Debug("lex error", logging.FieldPath, filename, logging.FieldError, err)
		return nil
	}

	var deprecations []report.Violation
	root, err := l.env.Parse(stream, func(d twig.Deprecation) {
		deprecations = append(deprecations, report.Violation{
			Level:    report.Notice,
			Message:  d.Message,
			Filename: filename,
			Line:     d.Line,
			Sniff:    SniffDeprecation,
		})
	})
	if err != nil {
		var syntaxErr *twig.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return fmt.Errorf("parse %s: %w", filename, err)
		}
		rep.AddMessage(report.Violation{
			Level:    report.Fatal,
			Message:  syntaxErr.Message,
			Filename: filename,
			Line:     syntaxErr.Line,
			Sniff:    SniffParser,
		})
		l.logger.Debug("syntax error", logging.FieldPath, filename, logging.FieldError, err)
		return nil
	}
	for _, v := range deprecations {
		rep.AddMessage(v)
	}

	rs.EnableReport(rep)
	defer rs.Disable()

	for _, ts := range rs.TokenSniffs() {
		if err := sniff.ProcessStream(ts, stream); err != nil {
			return fmt.Errorf("sniff %s on %s: %w", ts.ID(), filename, err)
		}
	}
	if astSniffs := rs.ASTSniffs(); len(astSniffs) > 0 {
		if err := twig.Traverse(root, sniff.Visitor(l.env, astSniffs...)); err != nil {
			return fmt.Errorf("sniff on %s: %w", filename, err)
		}
	}
	return nil
}
