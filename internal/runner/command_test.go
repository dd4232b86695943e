//go:build unix

package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-lang/testwrap/internal/runner"
	"github.com/forge-lang/testwrap/internal/testutil"
)

func TestDefaultCommandRunner_Run_Success(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "ok_test", "echo hello")

	out, code, err := r.Run(context.Background(), dir, script, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", string(out))
}

func TestDefaultCommandRunner_Run_NonzeroExit(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "fail_test", "echo broken\nexit 42")

	out, code, err := r.Run(context.Background(), dir, script, nil, nil)
	require.NoError(t, err, "a nonzero exit is not a launch failure")
	assert.Equal(t, 42, code)
	assert.Equal(t, "broken\n", string(out))
}

func TestDefaultCommandRunner_Run_CombinesStreams(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "mixed_test", "echo out\necho err >&2\necho out2")

	out, _, err := r.Run(context.Background(), dir, script, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "out\nerr\nout2\n", string(out))
}

func TestDefaultCommandRunner_Run_WorkingDirectoryAndArgs(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixture.txt"), []byte("fixture"), 0o600))
	script := testutil.WriteScript(t, dir, "cwd_test", `cat fixture.txt; echo; printf '%s|' "$@"`)

	out, code, err := r.Run(context.Background(), dir, script, []string{"a b", "--flag"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "fixture\na b|--flag|", string(out))
}

func TestDefaultCommandRunner_Run_LiveOutput(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "live_test", "echo live")
	var live strings.Builder

	out, _, err := r.Run(context.Background(), dir, script, nil, &live)
	require.NoError(t, err)
	assert.Equal(t, "live\n", live.String())
	assert.Equal(t, "live\n", string(out))
}

func TestDefaultCommandRunner_Run_KilledBySignal(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "segv_test", "kill -SEGV $$")

	_, code, err := r.Run(context.Background(), dir, script, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 128+11, code)
}

func TestDefaultCommandRunner_Run_MissingExecutable(t *testing.T) {
	r := &runner.DefaultCommandRunner{}
	dir := t.TempDir()

	_, code, err := r.Run(context.Background(), dir, filepath.Join(dir, "missing"), nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestRunner_RunInstrumented_FakeValgrind(t *testing.T) {
	const logText = "==1== All heap blocks were freed -- no leaks are possible\n"
	fake := testutil.NewFakeValgrind(t, logText, 0)
	dir := t.TempDir()
	artifact := testutil.WriteArtifact(t, dir, "empty_test", "OK", 0)

	r := runner.New()
	result, logPath, err := r.RunInstrumented(testContext(), artifact, []string{"arg"}, dir, runner.ToolConfig{
		Path:         fake.Path,
		Suppressions: []string{"glib.supp"},
		LogDir:       t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "OK\n", string(result.Output))
	assert.Equal(t, 1, testutil.RunCount(t, dir))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, logText, string(data))

	args := fake.Args(t)
	require.NotEmpty(t, args)
	assert.Equal(t, "--tool=memcheck", args[0])
	assert.Equal(t, []string{artifact, "arg"}, args[len(args)-2:])
}

func TestRunner_RunInstrumented_ProgramFailurePropagates(t *testing.T) {
	fake := testutil.NewFakeValgrind(t, "", 0)
	dir := t.TempDir()
	artifact := testutil.WriteArtifact(t, dir, "crash_test", "boom", 3)

	result, _, err := runner.New().RunInstrumented(testContext(), artifact, nil, dir, runner.ToolConfig{
		Path:         fake.Path,
		Suppressions: []string{"glib.supp"},
		LogDir:       t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, string(result.Output), "boom")
}
