// Package errors provides the error taxonomy for forge-testwrap.
//
// Sentinel errors categorise failures so callers can branch with errors.Is().
// ExitCodeError carries the process exit status a failure should map to.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"strconv"
)

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigMissingSuppression indicates that no valgrind suppression file
	// was configured for a strict-mode run.
	ErrConfigMissingSuppression = errors.New("valgrind suppression file not configured")

	// ErrConfigInvalid indicates a configuration value that cannot be used.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrArtifactNotFound indicates the test artifact path does not exist
	// or cannot be resolved.
	ErrArtifactNotFound = errors.New("test artifact not found")

	// ErrLaunchFailed indicates that a child process could not be started.
	ErrLaunchFailed = errors.New("failed to launch process")

	// ErrExecutionFailed indicates that the test artifact or the
	// instrumentation tool exited with a nonzero status.
	ErrExecutionFailed = errors.New("test execution failed")

	// ErrClassificationFailed indicates that the valgrind log did not match
	// any recognized clean shape.
	ErrClassificationFailed = errors.New("memory check failed")

	// ErrHashIO indicates a failure reading the artifact or reading/writing
	// its hash sidecar.
	ErrHashIO = errors.New("hash record i/o failed")

	// ErrDiagnosticLogIO indicates a failure reading or removing the
	// valgrind log file.
	ErrDiagnosticLogIO = errors.New("diagnostic log i/o failed")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInterrupted indicates the run was stopped by a signal.
	ErrInterrupted = errors.New("interrupted")

	// ErrInvalidTransition indicates a verification run tried to move
	// between states its mode does not connect.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ExitCodeError wraps an error with the exit status the process should use.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError wraps err so that the CLI exits with code.
func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Err: err}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to a process exit status.
// nil maps to 0, an ExitCodeError anywhere in the chain maps to its code,
// and everything else maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *ExitCodeError
	if errors.As(err, &e) {
		return e.Code
	}
	return 1
}
