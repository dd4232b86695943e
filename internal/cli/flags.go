package cli

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forge-lang/testwrap/internal/constants"
	"github.com/forge-lang/testwrap/internal/errors"
)

// Output format constants.
const (
	// OutputText prints what the test and valgrind printed, like a plain shell wrapper.
	OutputText = "text"
	// OutputJSON prints one JSON document describing the run.
	OutputJSON = "json"
	// OutputYAML prints one YAML document describing the run.
	OutputYAML = "yaml"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text, json or yaml).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile is an optional YAML config file.
	ConfigFile string
	// EnvFile is an optional dotenv file loaded before the environment is read.
	EnvFile string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "dotenv file with FORGE_* settings")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON, OutputYAML}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// ExitCodeForError returns the process exit code for err: 0 for nil, the
// carried code of an *errors.ExitCodeError (a failing test's own status),
// 2 for invalid usage and 1 for everything else.
func ExitCodeForError(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}

	var exitErr *errors.ExitCodeError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}

	if stderrors.Is(err, errors.ErrInvalidOutputFormat) {
		return constants.ExitUsage
	}

	// Cobra's own argument and flag errors carry no sentinel.
	if isInvalidInputError(err.Error()) {
		return constants.ExitUsage
	}

	return constants.ExitFailure
}

// isInvalidInputError checks if an error message indicates invalid user input.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"requires at least",
		"accepts ",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
