package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// forgeEnvKeys are every variable config.Load reads.
//
//nolint:gochecknoglobals // Test fixture
var forgeEnvKeys = []string{
	"FORGE_SKIP_UNCHANGED_TESTS",
	"FORGE_GLIB2_VALGRIND_SUPPRESSION_FILE",
	"FORGE_SOURCE_DIR",
	"FORGE_VALGRIND_PATH",
	"FORGE_VALGRIND_EXTRA_SUPPRESSIONS",
	"FORGE_VALGRIND_EXTRA_ARGS",
	"FORGE_VALGRIND_LOG_DIR",
	"FORGE_LOG_FILE",
}

// unsetForgeEnv removes every FORGE_* variable for the test, restoring them
// afterwards. Unset (not blank) so an --env-file can still provide them.
func unsetForgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range forgeEnvKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

// execute runs the CLI with args and returns exit code, stdout and stderr.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(testContext(), BuildInfo{Version: "test"}, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}
