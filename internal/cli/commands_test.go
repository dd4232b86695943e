package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/forge-lang/testwrap/internal/hashcache"
)

const (
	cleanLog = `==10== LEAK SUMMARY:
==10==    definitely lost: 0 bytes in 0 blocks
==10==    indirectly lost: 0 bytes in 0 blocks
==10==      possibly lost: 0 bytes in 0 blocks
==10==    still reachable: 0 bytes in 0 blocks
==10== ERROR SUMMARY: 0 errors from 0 contexts (suppressed: 0 from 0)
`
	leakLog = `==13== LEAK SUMMARY:
==13==    definitely lost: 1,024 bytes in 2 blocks
==13==    indirectly lost: 0 bytes in 0 blocks
==13== ERROR SUMMARY: 2 errors from 2 contexts (suppressed: 0 from 0)
`
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestClassifyCmd(t *testing.T) {
	unsetForgeEnv(t)

	t.Run("clean log text", func(t *testing.T) {
		path := writeFile(t, "valgrind-1.log", cleanLog)

		code, stdout, stderr := execute(t, "classify", path)
		assert.Equal(t, 0, code)
		assert.Empty(t, stderr)
		assert.Contains(t, stdout, "classification: pass")
		assert.Contains(t, stdout, "zero_definitely_lost")
		assert.Contains(t, stdout, "errors:         0")
		assert.FileExists(t, path, "classify never removes the log")
	})

	t.Run("leaking log json", func(t *testing.T) {
		path := writeFile(t, "valgrind-2.log", leakLog)

		code, stdout, stderr := execute(t, "-o", "json", "classify", path)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "memory check failed")

		var report map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, "ambiguous", report["classification"])
		summary, ok := report["summary"].(map[string]any)
		require.True(t, ok)
		leaks, ok := summary["leaks"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"bytes": float64(1024), "blocks": float64(2)}, leaks["definitely_lost"])
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "valgrind-3.log", cleanLog)

		code, stdout, _ := execute(t, "--output", "yaml", "classify", path)
		assert.Equal(t, 0, code)

		var report map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, "pass", report["classification"])
	})

	t.Run("missing log", func(t *testing.T) {
		code, _, stderr := execute(t, "classify", filepath.Join(t.TempDir(), "absent.log"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "diagnostic log i/o failed")
	})
}

func TestHashCmd(t *testing.T) {
	unsetForgeEnv(t)

	artifact := writeFile(t, "lexer_test", "binary v1")
	digest, err := hashcache.New().Digest(artifact)
	require.NoError(t, err)

	t.Run("no record", func(t *testing.T) {
		code, stdout, _ := execute(t, "hash", artifact)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "digest:   "+digest)
		assert.Contains(t, stdout, "stored:   none")
		assert.Contains(t, stdout, "matches:  false")
	})

	t.Run("matching record json", func(t *testing.T) {
		require.NoError(t, hashcache.New().Save(testContext(), artifact))

		code, stdout, _ := execute(t, "-o", "json", "hash", artifact)
		assert.Equal(t, 0, code)

		var status hashcache.Status
		require.NoError(t, json.Unmarshal([]byte(stdout), &status))
		assert.Equal(t, digest, status.Digest)
		assert.Equal(t, digest, status.StoredDigest)
		assert.True(t, status.RecordPresent)
		assert.True(t, status.Matches)
	})

	t.Run("missing executable", func(t *testing.T) {
		code, _, stderr := execute(t, "hash", filepath.Join(t.TempDir(), "nope_test"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "test artifact not found")
		assert.Contains(t, stderr, "Hint:")
	})
}
