package errors

import "errors"

// hintEntry pairs a sentinel error with a suggested fix shown to the user.
type hintEntry struct {
	err  error
	hint string
}

// hintEntries is ordered; the first sentinel in an error's chain wins.
//
//nolint:gochecknoglobals // Pre-built mapping
var hintEntries = []hintEntry{
	{
		err:  ErrConfigMissingSuppression,
		hint: "Set FORGE_GLIB2_VALGRIND_SUPPRESSION_FILE to the GLib valgrind suppression file.",
	},
	{
		err:  ErrArtifactNotFound,
		hint: "The test command must be a direct filesystem path to the built test executable.",
	},
	{
		err:  ErrLaunchFailed,
		hint: "Check that the executable exists and that valgrind is installed (FORGE_VALGRIND_PATH).",
	},
	{
		err:  ErrHashIO,
		hint: "Delete the .hash file next to the test executable and run again.",
	},
	{
		err:  ErrInvalidOutputFormat,
		hint: "Use --output text, json or yaml.",
	},
}

// Hint returns a suggested action for err, or "" when none applies.
func Hint(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range hintEntries {
		if errors.Is(err, entry.err) {
			return entry.hint
		}
	}
	return ""
}
