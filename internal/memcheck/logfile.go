package memcheck

import (
	"os"

	"github.com/forge-lang/testwrap/internal/errors"
)

// ConsumeLog reads the whole log at path and removes the file before
// returning, whether or not the read succeeded. The file never outlives the
// call.
func ConsumeLog(path string) (string, error) {
	data, readErr := os.ReadFile(path) //#nosec G304 -- path was generated for this run
	removeErr := RemoveLog(path)

	if readErr != nil {
		return "", errors.Wrapf(errors.ErrDiagnosticLogIO, "failed to read %s: %v", path, readErr)
	}
	if removeErr != nil {
		return "", removeErr
	}
	return string(data), nil
}

// RemoveLog deletes the log at path. A missing file is not an error.
func RemoveLog(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrDiagnosticLogIO, "failed to remove %s: %v", path, err)
	}
	return nil
}
