package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/edixml/internal/configloader"
	"github.com/yaklabco/edixml/pkg/runner"
)

// Exit codes for edixml, following sysexits(3) where one applies.
const (
	// ExitSuccess indicates every input converted.
	ExitSuccess = 0

	// ExitConversionFailures indicates the run completed but some inputs failed.
	ExitConversionFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file or environment errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates an input could not be read or an output could not be written.
	ExitIOError = 74
)

// ErrConversionFailed signals that the report already describes the failures.
var ErrConversionFailed = errors.New("conversion failed")

// ExitError carries the exit status a command wants the process to end with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitInvalidUsage, Err: err}
}

// ExitCodeFromResult maps a run result to an exit code. I/O failures win
// over conversion failures.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result.HasIOFailures():
		return ExitIOError
	case result.HasFailures():
		return ExitConversionFailures
	default:
		return ExitSuccess
	}
}

// ExitCode returns the process exit status for an error returned by a command.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var validationErr *configloader.ValidationError
	if errors.As(err, &validationErr) {
		return ExitConfigError
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return ExitIOError
	}
	return ExitInternalError
}
