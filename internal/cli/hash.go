package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forge-lang/testwrap/internal/hashcache"
	"github.com/forge-lang/testwrap/internal/verify"
)

func newHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <test-executable>",
		Short: "Show a test executable's digest and its recorded hash",
		Long: `Compute the SHA-256 digest of a test executable and compare it with the
hash recorded after its last successful run. Nothing is written.

Examples:
  forge-testwrap hash build/tests/lexer_test
  forge-testwrap hash --output json build/tests/lexer_test`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd.OutOrStdout(), a.flags.Output, args[0])
		},
	}
}

func runHash(w io.Writer, format, path string) error {
	artifact, err := verify.ResolveArtifact(path)
	if err != nil {
		return err
	}

	status, err := hashcache.New().Status(artifact)
	if err != nil {
		return err
	}

	if format != OutputText {
		return renderDocument(w, format, status)
	}

	stored := status.StoredDigest
	if !status.RecordPresent {
		stored = "none"
	}
	_, _ = fmt.Fprintf(w, "artifact: %s\n", status.Artifact)
	_, _ = fmt.Fprintf(w, "record:   %s\n", status.RecordPath)
	_, _ = fmt.Fprintf(w, "digest:   %s\n", status.Digest)
	_, _ = fmt.Fprintf(w, "stored:   %s\n", stored)
	_, _ = fmt.Fprintf(w, "matches:  %t\n", status.Matches)
	return nil
}
