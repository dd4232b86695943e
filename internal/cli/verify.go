package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/forge-lang/testwrap/internal/verify"
)

func newFastCmd(a *app) *cobra.Command {
	return newVerifyCmd(a, verify.ModePlain, &cobra.Command{
		Use:   "fast <test-executable> [args...]",
		Short: "Run a test and record its hash on success",
		Long: `Run a test executable once, streaming its output.

The test is skipped when FORGE_SKIP_UNCHANGED_TESTS=1 and the executable
matches the hash of its last successful run. The exit code is the test's own.

Examples:
  forge-testwrap fast build/tests/lexer_test
  FORGE_SKIP_UNCHANGED_TESTS=1 forge-testwrap fast build/tests/lexer_test --filter numbers`,
	})
}

func newFullCmd(a *app) *cobra.Command {
	return newVerifyCmd(a, verify.ModeStrict, &cobra.Command{
		Use:   "full <test-executable> [args...]",
		Short: "Run a test, then run it under valgrind and check the log",
		Long: `Run a test executable, then run it again under valgrind memcheck.

The valgrind log must show either a zero leak summary or "no leaks are
possible", and no use of uninitialised values. Anything else fails the run
and the full log is printed. Output of a passing run is not shown.

Requires FORGE_GLIB2_VALGRIND_SUPPRESSION_FILE. The project's forge.supp in
FORGE_SOURCE_DIR is passed as a second suppression file.

Examples:
  forge-testwrap full build/tests/parser_test
  forge-testwrap --output json full build/tests/parser_test --seed 7`,
	})
}

// newVerifyCmd finishes a verification command. Flag parsing stops at the
// test executable so its own flags are forwarded untouched.
func newVerifyCmd(a *app, mode verify.Mode, cmd *cobra.Command) *cobra.Command {
	cmd.Args = cobra.MinimumNArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), cmd.OutOrStdout(), a, mode, args[0], args[1:])
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runVerify(ctx context.Context, w io.Writer, a *app, mode verify.Mode, artifact string, args []string) error {
	var opts []verify.Option
	if a.flags.Output == OutputText {
		opts = append(opts, verify.WithStdout(w))
	}

	outcome, err := verify.New(a.cfg, opts...).Run(ctx, mode, artifact, args)

	if a.flags.Output != OutputText {
		if renderErr := renderDocument(w, a.flags.Output, outcome); renderErr != nil && err == nil {
			return renderErr
		}
	}
	return err
}
