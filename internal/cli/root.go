// Package cli provides the command-line interface for forge-testwrap.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forge-lang/testwrap/internal/config"
	"github.com/forge-lang/testwrap/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// app carries what PersistentPreRunE prepares for every subcommand.
type app struct {
	flags *GlobalFlags
	cfg   *config.Config
}

// newRootCmd creates the root command. Configuration and the logger are set
// up once in PersistentPreRunE, before any subcommand runs.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	a := &app{flags: flags}

	cmd := &cobra.Command{
		Use:   "forge-testwrap",
		Short: "Run Forge test executables with hash-based skipping and valgrind checks",
		Long: `forge-testwrap wraps one compiled Forge test executable per invocation.

It skips the test when the executable is unchanged since its last successful
run (FORGE_SKIP_UNCHANGED_TESTS=1), runs it, and in full mode runs it again
under valgrind memcheck and rejects any log that is not recognizably clean.
The hash of the executable is only recorded after a full success.

Examples:
  forge-testwrap fast build/tests/lexer_test
  forge-testwrap full build/tests/parser_test --seed 7
  forge-testwrap classify valgrind-1234.log
  forge-testwrap hash build/tests/lexer_test --output json`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newFastCmd(a),
		newFullCmd(a),
		newClassifyCmd(a),
		newHashCmd(a),
	)

	return cmd
}

// setup loads configuration and installs the logger in the command's context.
func (a *app) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, config.LoadOptions{
		ConfigFile: a.flags.ConfigFile,
		EnvFile:    a.flags.EnvFile,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger := InitLogger(a.flags.Verbose, a.flags.Quiet, cfg.Log.File)
	cmd.SetContext(logger.WithContext(ctx))

	logger.Debug().
		Str("command", cmd.Name()).
		Str("output", a.flags.Output).
		Bool("skip_unchanged", cfg.SkipUnchanged()).
		Msg("configuration loaded")

	return nil
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with args and returns the process exit code.
// Errors are reported on stderr with a hint when one applies.
func Execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) int {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	defer CloseLogFile()

	if err != nil {
		reportError(stderr, err)
	}
	return ExitCodeForError(err)
}

// reportError prints err and, when known, what to do about it.
func reportError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.Hint(err); hint != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
