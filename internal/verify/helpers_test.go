package verify_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/forge-lang/testwrap/internal/config"
	"github.com/forge-lang/testwrap/internal/hashcache"
	"github.com/forge-lang/testwrap/internal/runner"
)

const (
	cleanLog = `==10== HEAP SUMMARY:
==10==     in use at exit: 0 bytes in 0 blocks
==10== LEAK SUMMARY:
==10==    definitely lost: 0 bytes in 0 blocks
==10==    indirectly lost: 0 bytes in 0 blocks
==10==      possibly lost: 0 bytes in 0 blocks
==10==    still reachable: 0 bytes in 0 blocks
==10== ERROR SUMMARY: 0 errors from 0 contexts (suppressed: 0 from 0)
`
	trivialLog = "==11== All heap blocks were freed -- no leaks are possible.\n"

	uninitLog = `==12== Conditional jump or move depends on uninitialised value(s)
==12==    at 0x10A1B2: forge_parse_expression (parser.c:214)
==12==    definitely lost: 0 bytes in 0 blocks
==12==    indirectly lost: 0 bytes in 0 blocks
==12==      possibly lost: 0 bytes in 0 blocks
==12==    still reachable: 0 bytes in 0 blocks
`
	leakLog = `==13== LEAK SUMMARY:
==13==    definitely lost: 64 bytes in 1 blocks
==13==    indirectly lost: 0 bytes in 0 blocks
==13==      possibly lost: 0 bytes in 0 blocks
==13==    still reachable: 0 bytes in 0 blocks
`
	glibSupp = "/usr/share/glib-2.0/valgrind/glib.supp"
)

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

// strictConfig returns a config good for strict runs with logs in a temp dir.
func strictConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.GLib2ValgrindSuppressionFile = glibSupp
	cfg.SourceDir = "/src/forge"
	cfg.Valgrind.LogDir = t.TempDir()
	return cfg
}

// writeArtifact writes a file standing in for a test executable. The mock
// runner never executes it.
func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexer_test")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

// readSidecar returns the sidecar's bytes and whether it exists.
func readSidecar(t *testing.T, artifact string) (string, bool) {
	t.Helper()
	data, err := os.ReadFile(hashcache.New().RecordPath(artifact))
	if os.IsNotExist(err) {
		return "", false
	}
	require.NoError(t, err)
	return string(data), true
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// mockRunner stands in for the process runner. RunInstrumented writes logText
// to a file in the tool's log directory, as valgrind would.
type mockRunner struct {
	plainResult *runner.Result
	plainErr    error
	instrResult *runner.Result
	instrErr    error
	logText     string

	plainCalls int
	instrCalls int
	tool       runner.ToolConfig
	args       []string
	workDir    string
	logPath    string
	live       io.Writer
}

func (m *mockRunner) RunPlain(_ context.Context, _ string, args []string, workDir string) (*runner.Result, error) {
	m.plainCalls++
	m.args = args
	m.workDir = workDir
	if m.plainErr != nil {
		return nil, m.plainErr
	}
	if m.live != nil {
		_, _ = m.live.Write(m.plainResult.Output)
	}
	return m.plainResult, nil
}

func (m *mockRunner) RunInstrumented(_ context.Context, _ string, args []string, workDir string, tool runner.ToolConfig) (*runner.Result, string, error) {
	m.instrCalls++
	m.tool = tool
	m.args = args
	m.workDir = workDir
	if m.instrErr != nil {
		return nil, "", m.instrErr
	}
	m.logPath = filepath.Join(tool.LogDir, "valgrind-mock.log")
	if err := os.WriteFile(m.logPath, []byte(m.logText), 0o600); err != nil {
		return nil, "", err
	}
	return m.instrResult, m.logPath, nil
}

func (m *mockRunner) SetLiveOutput(w io.Writer) {
	m.live = w
}

func passing(output string) *runner.Result {
	return &runner.Result{ExitCode: 0, Output: []byte(output)}
}

func failing(code int, output string) *runner.Result {
	return &runner.Result{ExitCode: code, Output: []byte(output)}
}
