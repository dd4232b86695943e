package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forge-lang/testwrap/internal/errors"
	"github.com/forge-lang/testwrap/internal/memcheck"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <valgrind-log>",
		Short: "Classify an existing valgrind log",
		Long: `Parse a valgrind memcheck log and print the verdict full mode would reach.

The log file is only read, never removed. The exit code is 0 for a clean log
and 1 otherwise.

Examples:
  forge-testwrap classify valgrind-1234.log
  forge-testwrap classify --output yaml valgrind-1234.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.OutOrStdout(), a.flags.Output, args[0])
		},
	}
}

func runClassify(w io.Writer, format, path string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- user-supplied log path
	if err != nil {
		return errors.Wrapf(errors.ErrDiagnosticLogIO, "failed to read %s: %v", path, err)
	}

	report := memcheck.Analyze(string(data))

	if format == OutputText {
		writeReport(w, report)
	} else if err := renderDocument(w, format, report); err != nil {
		return err
	}

	if !report.Passed() {
		return errors.Wrapf(errors.ErrClassificationFailed, "%s (%s)", report.Classification, report.Rule)
	}
	return nil
}

func writeReport(w io.Writer, report *memcheck.Report) {
	names := make([]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		names = append(names, c.String())
	}
	if len(names) == 0 {
		names = append(names, "none")
	}

	_, _ = fmt.Fprintf(w, "classification: %s\n", report.Classification)
	_, _ = fmt.Fprintf(w, "rule:           %s\n", report.Rule)
	_, _ = fmt.Fprintf(w, "markers:        %s\n", strings.Join(names, ", "))

	for _, kind := range []memcheck.LeakKind{
		memcheck.DefinitelyLost, memcheck.IndirectlyLost, memcheck.PossiblyLost, memcheck.StillReachable,
	} {
		if leak, ok := report.Summary.Leaks[kind]; ok {
			_, _ = fmt.Fprintf(w, "%-16s%d bytes in %d blocks\n", string(kind)+":", leak.Bytes, leak.Blocks)
		}
	}
	if report.Summary.ErrorsReported {
		_, _ = fmt.Fprintf(w, "errors:         %d\n", report.Summary.Errors)
	}
}
