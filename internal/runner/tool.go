package runner

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/forge-lang/testwrap/internal/constants"
	"github.com/forge-lang/testwrap/internal/errors"
)

// ToolConfig describes how to invoke valgrind around the test executable.
type ToolConfig struct {
	// Path is the valgrind executable.
	Path string

	// Suppressions are passed as one --suppressions flag each. At least one
	// is required.
	Suppressions []string

	// LogDir is where the per-run log file is created.
	LogDir string

	// ExtraArgs are appended after the standard flags.
	ExtraArgs []string
}

// Validate checks the tool configuration before anything is spawned.
func (c ToolConfig) Validate() error {
	if c.Path == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "valgrind path must not be empty")
	}
	if len(c.Suppressions) == 0 {
		return errors.Wrap(errors.ErrConfigMissingSuppression, "at least one suppression file is required")
	}
	for _, s := range c.Suppressions {
		if s == "" {
			return errors.Wrap(errors.ErrConfigMissingSuppression, "suppression file path must not be empty")
		}
	}
	if c.LogDir == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "valgrind log directory must not be empty")
	}
	return nil
}

// Args builds the valgrind argument vector wrapping exe and its args.
func (c ToolConfig) Args(logPath, exe string, args []string) []string {
	argv := make([]string, 0, 4+len(c.Suppressions)+len(c.ExtraArgs)+1+len(args))
	argv = append(argv, constants.ValgrindToolMemcheck)
	for _, s := range c.Suppressions {
		argv = append(argv, constants.ValgrindSuppressionsFlag+s)
	}
	argv = append(argv,
		constants.ValgrindLeakCheckFull,
		constants.ValgrindShowAllLeakKinds,
		constants.ValgrindLogFileFlag+logPath,
	)
	argv = append(argv, c.ExtraArgs...)
	argv = append(argv, exe)
	return append(argv, args...)
}

// newLogPath returns an absolute log path unique to this invocation.
// Concurrent runs never collide because the name embeds a random UUID.
func newLogPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(errors.ErrDiagnosticLogIO, "failed to resolve log directory %s: %v", dir, err)
	}
	name := constants.DiagnosticLogPrefix + uuid.NewString() + constants.DiagnosticLogSuffix
	return filepath.Join(abs, name), nil
}

// removeStale deletes a file left at path, ignoring a missing one.
func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrDiagnosticLogIO, "failed to remove %s: %v", path, err)
	}
	return nil
}
