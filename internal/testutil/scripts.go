package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// RunMarkerFile is appended to by scripts from WriteArtifact each time they run,
// in their working directory.
const RunMarkerFile = "runs.txt"

// WriteScript writes an executable POSIX shell script and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o700); err != nil { //#nosec G306 -- test executable
		t.Fatalf("failed to write script %s: %v", path, err)
	}
	return path
}

// WriteArtifact writes a fake test executable that records each run in
// RunMarkerFile, prints output, and exits with exitCode.
func WriteArtifact(t *testing.T, dir, name, output string, exitCode int) string {
	t.Helper()
	body := fmt.Sprintf("echo run >> %s\nprintf '%%s\\n' %s\nexit %d",
		RunMarkerFile, shellQuote(output), exitCode)
	return WriteScript(t, dir, name, body)
}

// RunCount returns how many times artifacts in dir have run.
func RunCount(t *testing.T, dir string) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, RunMarkerFile)) //#nosec G304 -- test helper
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read run marker: %v", err)
	}
	return strings.Count(string(data), "run\n")
}

// FakeValgrind is a shell script standing in for valgrind. It records its
// arguments, runs the wrapped program, writes a canned log to the path given
// by --log-file=, and exits with the program's status when nonzero, otherwise
// with its configured exit code.
type FakeValgrind struct {
	Path string
	dir  string
}

// NewFakeValgrind writes a fake valgrind into its own temp directory.
func NewFakeValgrind(t *testing.T, logText string, exitCode int) *FakeValgrind {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "log.txt"), []byte(logText), 0o600); err != nil {
		t.Fatalf("failed to write fake log: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exit-code"), []byte(strconv.Itoa(exitCode)), 0o600); err != nil {
		t.Fatalf("failed to write fake exit code: %v", err)
	}

	body := `here=$(cd "$(dirname "$0")" && pwd)
: > "$here/args"
for a in "$@"; do printf '%s\n' "$a" >> "$here/args"; done
log=""
while [ $# -gt 0 ]; do
  case "$1" in
    --log-file=*) log="${1#--log-file=}"; shift ;;
    --*) shift ;;
    *) break ;;
  esac
done
"$@"
status=$?
if [ -n "$log" ]; then cp "$here/log.txt" "$log"; printf '%s\n' "$log" >> "$here/logs"; fi
if [ "$status" -ne 0 ]; then exit "$status"; fi
exit "$(cat "$here/exit-code")"`

	return &FakeValgrind{
		Path: WriteScript(t, dir, "valgrind", body),
		dir:  dir,
	}
}

// Args returns the arguments of the fake's most recent invocation.
func (f *FakeValgrind) Args(t *testing.T) []string {
	t.Helper()
	return readLines(t, filepath.Join(f.dir, "args"))
}

// LogPaths returns every log path the fake has written, in order.
func (f *FakeValgrind) LogPaths(t *testing.T) []string {
	t.Helper()
	return readLines(t, filepath.Join(f.dir, "logs"))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test helper
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	trimmed := strings.TrimSuffix(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// shellQuote single-quotes s for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
