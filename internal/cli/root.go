// Package cli provides the Cobra command structure for twigcs.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yaklabco/twigcs/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root twigcs command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "twigcs",
		Short: "A coding standard checker and fixer for Twig templates",
		Long: `twigcs checks Twig templates against a coding standard.

Each template is tokenized without loss, parsed, and run through the sniffs
of the Generic standard. Many violations can be fixed in place with --fix;
the fixer re-runs the sniffs until the file is stable and refuses to write a
file whose fixes never converge.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitInvalidUsage, Err: err}
	})

	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newSniffsCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// Execute runs the root command with args and returns the process exit
// code. Errors other than lint failures are logged to the default logger.
func Execute(info BuildInfo, args []string) int {
	cmd := NewRootCommand(info)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil && !errors.Is(err, ErrLintIssuesFound) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return ExitCode(err)
}
