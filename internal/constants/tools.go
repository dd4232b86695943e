package constants

// Instrumentation tool defaults.
const (
	// DefaultValgrindPath is the valgrind executable looked up on PATH.
	DefaultValgrindPath = "valgrind"

	// ProjectSuppressionFileName is the project's own suppression file, found
	// in the source directory next to the configured GLib suppression file.
	ProjectSuppressionFileName = "forge.supp"
)

// Valgrind flags passed on every instrumented run.
const (
	// ValgrindToolMemcheck selects the memory checker.
	ValgrindToolMemcheck = "--tool=memcheck"

	// ValgrindLeakCheckFull reports each leak individually.
	ValgrindLeakCheckFull = "--leak-check=full"

	// ValgrindShowAllLeakKinds includes still-reachable and indirect blocks.
	ValgrindShowAllLeakKinds = "--show-leak-kinds=all"

	// ValgrindSuppressionsFlag prefixes each suppression file argument.
	ValgrindSuppressionsFlag = "--suppressions="

	// ValgrindLogFileFlag prefixes the log file argument.
	ValgrindLogFileFlag = "--log-file="
)
