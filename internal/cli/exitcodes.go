package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/twigcs/pkg/report"
)

// Exit codes for twigcs.
const (
	// ExitSuccess indicates no failing violations.
	ExitSuccess = 0

	// ExitLintErrors indicates an ERROR or FATAL violation at or above the
	// reported level.
	ExitLintErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration errors.
	ExitConfigError = 65

	// ExitInternalError indicates a failure of the run itself, such as a
	// file whose fixes do not converge.
	ExitInternalError = 70
)

// ErrLintIssuesFound is returned when failing violations were reported.
var ErrLintIssuesFound = errors.New("lint issues found")

// ExitError carries the exit code for a command failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErrorf(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps a command error to the process exit code. Errors without
// an exit code come from argument parsing.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrLintIssuesFound) {
		return ExitLintErrors
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInvalidUsage
}

// ExitCodeFromReport determines the exit code of a finished run.
func ExitCodeFromReport(rep *report.Report, minLevel report.Level) int {
	if rep != nil && rep.HasFailures(minLevel) {
		return ExitLintErrors
	}
	return ExitSuccess
}
