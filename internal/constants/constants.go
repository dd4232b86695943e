// Package constants provides centralized constant values used throughout forge-testwrap.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Environment configuration.
const (
	// EnvPrefix is prepended to every configuration key read from the environment
	// (e.g. skip_unchanged_tests -> FORGE_SKIP_UNCHANGED_TESTS).
	EnvPrefix = "FORGE"

	// SkipEnabledValue is the only value of skip_unchanged_tests that enables
	// skipping. Anything else, including absence, disables it.
	SkipEnabledValue = "1"
)

// Process exit codes.
const (
	// ExitSuccess indicates the test was skipped or fully passed.
	ExitSuccess = 0

	// ExitFailure indicates a locally detected failure (memory check,
	// configuration, missing artifact, I/O).
	ExitFailure = 1

	// ExitUsage indicates invalid command-line usage.
	ExitUsage = 2

	// ExitSignalBase is added to the signal number when a run is interrupted.
	ExitSignalBase = 128
)

// Messages printed on stdout, where the build system's test log collects them.
const (
	// SkipNotice is printed when a test is skipped because its executable is unchanged.
	SkipNotice = "Skipping test because it matches hash of last successful run"
)
