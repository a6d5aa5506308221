package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/twigcs/internal/configloader"
	"github.com/yaklabco/twigcs/internal/logging"
	"github.com/yaklabco/twigcs/pkg/config"
	"github.com/yaklabco/twigcs/pkg/fixer"
	"github.com/yaklabco/twigcs/pkg/linter"
	"github.com/yaklabco/twigcs/pkg/report"
	"github.com/yaklabco/twigcs/pkg/reporter"
	"github.com/yaklabco/twigcs/pkg/ruleset"
	"github.com/yaklabco/twigcs/pkg/runner"
	"github.com/yaklabco/twigcs/pkg/sniff/generic"
	"github.com/yaklabco/twigcs/pkg/twig"
)

type lintFlags struct {
	level     string
	format    string
	exclude   []string
	ext       []string
	stubTags  []string
	enable    []string
	disable   []string
	noContext bool
	compact   bool
}

func newLintCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint Twig templates",
		Long:  lintLongDescription + envHelp(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags, info)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint Twig templates against the Generic standard.

By default, lints all .twig files in the current directory and its
subdirectories, skipping hidden and vendored directories. Specify paths to
lint specific files or directories.

Examples:
  twigcs lint                          # Lint current directory
  twigcs lint templates/               # Lint a directory
  twigcs lint base.html.twig           # Lint a single file
  twigcs lint --fix                    # Fix what can be fixed, then lint
  twigcs lint --level error            # Report errors and fatals only
  twigcs lint --format checkstyle      # Checkstyle XML for CI
  twigcs lint --disable DumpUsage      # Skip a sniff`

// envHelp lists the environment variables that override config files.
func envHelp() string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("\n\nEnvironment:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-22s %s\n", name, vars[name])
	}
	return strings.TrimRight(b.String(), "\n")
}

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags, info BuildInfo) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	// Only flags given on the command line override the config files.
	if cmd.Flags().Changed("level") {
		cfg.Level = flags.level
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("color") {
		color, err := cmd.Flags().GetString("color")
		if err != nil {
			return exitErrorf(ExitInvalidUsage, "get color flag: %w", err)
		}
		cfg.Color = config.ColorMode(color)
	}
	cfg.Exclude = flags.exclude
	cfg.Extensions = flags.ext
	cfg.StubTags = flags.stubTags
	cfg.EnableSniffs = flags.enable
	cfg.DisableSniffs = flags.disable

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return exitErrorf(ExitInvalidUsage, "get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return exitErrorf(ExitInternalError, "get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		KnownSniffs:  generic.IDs(),
		CLIConfig:    cfg,
	})
	if err != nil {
		return exitErrorf(ExitConfigError, "load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	finalCfg := loadResult.Config
	minLevel, err := report.ParseLevel(finalCfg.Level)
	if err != nil {
		return exitErrorf(ExitConfigError, "load configuration: %w", err)
	}

	rs := buildRuleset(finalCfg)
	logger.Debug("configuration loaded",
		logging.FieldFix, finalCfg.Fix,
		logging.FieldFormat, finalCfg.Format,
		logging.FieldMinLevel, minLevel,
		logging.FieldSniffs, rs.Len(),
	)

	result, err := newRunner(finalCfg, logger).Run(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   finalCfg.Extensions,
		ExcludeGlobs: finalCfg.Exclude,
	}, rs, finalCfg.Fix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitErrorf(ExitInvalidUsage, "lint run failed: %w", err)
		}
		return exitErrorf(ExitInternalError, "lint run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:            cmd.OutOrStdout(),
		Format:            finalCfg.Format,
		Color:             finalCfg.Color,
		MinLevel:          minLevel,
		ShowContext:       !flags.noContext,
		ShowSummary:       true,
		Compact:           flags.compact,
		WorkingDir:        workDir,
		ToolVersion:       info.Version,
		SniffDescriptions: sniffDescriptions(rs),
	})
	if err != nil {
		return exitErrorf(ExitInvalidUsage, "create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return exitErrorf(ExitInternalError, "report results: %w", err)
	}

	if ExitCodeFromReport(result.Report, minLevel) != ExitSuccess {
		return ErrLintIssuesFound
	}
	return nil
}

// buildRuleset registers the Generic standard minus the disabled sniffs.
func buildRuleset(cfg *config.Config) *ruleset.Ruleset {
	rs := ruleset.New()
	rs.AddStandard(generic.New())
	for _, id := range generic.IDs() {
		if !cfg.SniffEnabled(id) {
			rs.Remove(id)
		}
	}
	return rs
}

func newRunner(cfg *config.Config, logger *log.Logger) *runner.Runner {
	env := twig.NewEnvironment(twig.WithStubTags(cfg.StubTags...))
	l := linter.New(env,
		linter.WithLogger(logger),
		linter.WithFixerOptions(fixer.WithBackup(cfg.Backups)),
	)
	return runner.New(l, logger)
}

func sniffDescriptions(rs *ruleset.Ruleset) map[string]string {
	out := make(map[string]string, rs.Len())
	for _, s := range rs.Sniffs() {
		out[s.ID()] = s.Description()
	}
	return out
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "fix violations in place before linting")
	cmd.Flags().BoolVar(&cfg.Backups, "backups", false, "keep a backup of each file rewritten by --fix")
	cmd.Flags().StringVar(&flags.level, "level", config.DefaultLevel,
		"minimum level reported: notice, warning, error, fatal")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText),
		"output format: text, table, json, sarif, checkstyle, summary")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().StringSliceVar(&flags.ext, "ext", nil, "template extensions to lint (default .twig)")
	cmd.Flags().StringSliceVar(&flags.stubTags, "stub-tag", nil, "extension tags to accept without knowing them")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "sniff IDs to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "sniff IDs to disable")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}
