package constants

import "os"

// Hash sidecar files.
const (
	// HashFileExtension replaces the test executable's extension to form the
	// sidecar path holding the digest of its last successful run.
	HashFileExtension = ".hash"

	// HashFilePerm is the permission used when writing a sidecar.
	HashFilePerm os.FileMode = 0o644
)

// Diagnostic log files written by valgrind.
const (
	// DiagnosticLogPrefix starts every valgrind log file name.
	DiagnosticLogPrefix = "valgrind-"

	// DiagnosticLogSuffix ends every valgrind log file name.
	DiagnosticLogSuffix = ".log"
)

// CLI log file rotation.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated files.
	LogMaxAgeDays = 14

	// LogCompress gzips rotated files.
	LogCompress = true

	// LogDirPerm is the permission used when creating the log directory.
	LogDirPerm os.FileMode = 0o750
)
