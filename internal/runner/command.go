// Package runner executes a test executable as a child process, either plainly
// or wrapped by valgrind, and captures its combined output and exit status.
//
// Commands are executed as an argv vector, never through a shell: the
// executable path and its arguments come from the build system verbatim.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"syscall"

	"github.com/forge-lang/testwrap/internal/constants"
)

// CommandRunner executes a command to completion.
// This allows for testing by injecting mock implementations.
//
// A command that starts and exits nonzero is reported through exitCode with a
// nil error. err is reserved for commands that could not be run at all.
type CommandRunner interface {
	Run(ctx context.Context, workDir, name string, args []string, liveOut io.Writer) (output []byte, exitCode int, err error)
}

// DefaultCommandRunner implements CommandRunner using os/exec.
type DefaultCommandRunner struct{}

// Run executes name with args in workDir, capturing stdout and stderr into one
// buffer in the order they are written. If liveOut is non-nil the output is
// also streamed to it.
func (r *DefaultCommandRunner) Run(ctx context.Context, workDir, name string, args []string, liveOut io.Writer) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var buf bytes.Buffer
	var out io.Writer = &buf
	if liveOut != nil {
		out = io.MultiWriter(&buf, liveOut)
	}
	// One writer for both streams keeps their interleaving.
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if err == nil {
		return buf.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return buf.Bytes(), exitCode(exitErr), nil
	}

	return buf.Bytes(), constants.ExitFailure, err
}

// exitCode returns the child's exit status, or 128+signal when it was killed
// by a signal.
func exitCode(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return constants.ExitSignalBase + int(status.Signal())
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return constants.ExitFailure
}

// Ensure DefaultCommandRunner implements CommandRunner.
var _ CommandRunner = (*DefaultCommandRunner)(nil)
