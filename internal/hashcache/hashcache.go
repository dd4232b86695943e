// Package hashcache records the SHA-256 digest of a test executable after its
// last successful run, so an unchanged executable can be skipped. The tests are
// statically linked, so the executable's bytes fully identify what was tested.
//
// The digest lives in a sidecar next to the executable (foo_test -> foo_test.hash,
// foo.exe -> foo.hash). Each sidecar belongs to exactly one executable, so
// concurrent runs for different executables never share state and no locking
// is used.
package hashcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forge-lang/testwrap/internal/constants"
	"github.com/forge-lang/testwrap/internal/errors"
)

// SkipPolicy reports whether skip-on-unchanged is enabled.
// *config.Config satisfies it.
type SkipPolicy interface {
	SkipUnchanged() bool
}

// Cache reads and writes hash sidecars.
type Cache struct{}

// New creates a Cache.
func New() *Cache {
	return &Cache{}
}

// Digest streams the file at path through SHA-256 and returns the lowercase
// hex digest.
func (c *Cache) Digest(path string) (string, error) {
	f, err := os.Open(path) //#nosec G304 -- path is the test executable under verification
	if err != nil {
		return "", errors.Wrapf(errors.ErrHashIO, "failed to open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(errors.ErrHashIO, "failed to read %s: %v", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RecordPath returns the sidecar path for an executable: the last extension
// is replaced by .hash, or .hash is appended when there is none.
func (c *Cache) RecordPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	// A leading dot is part of the name, not an extension (".test" has none).
	if ext == base || ext == "." {
		ext = ""
	}
	return strings.TrimSuffix(path, ext) + constants.HashFileExtension
}

// Load returns the digest stored in the sidecar at recordPath.
// ok is false with a nil error when the sidecar does not exist, which means
// the executable has never passed in any recorded form.
func (c *Cache) Load(recordPath string) (digest string, ok bool, err error) {
	data, err := os.ReadFile(recordPath) //#nosec G304 -- sidecar path is derived from the executable path
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(errors.ErrHashIO, "failed to read %s: %v", recordPath, err)
	}
	return string(bytes.TrimSpace(data)), true, nil
}

// Matches reports whether a stored digest exists and equals the digest of
// the executable's current bytes.
func (c *Cache) Matches(path string) (bool, error) {
	actual, err := c.Digest(path)
	if err != nil {
		return false, err
	}

	expected, ok, err := c.Load(c.RecordPath(path))
	if err != nil || !ok {
		return false, err
	}

	return actual == expected, nil
}

// SkipEligible reports whether the run for path can be skipped: skipping must
// be enabled and the executable must match its recorded digest. It only reads.
// When skipping is disabled the executable is not hashed at all.
func (c *Cache) SkipEligible(ctx context.Context, policy SkipPolicy, path string) (bool, error) {
	if policy == nil || !policy.SkipUnchanged() {
		return false, nil
	}

	matches, err := c.Matches(path)
	if err != nil {
		return false, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("artifact", path).
		Bool("matches", matches).
		Msg("checked hash of last successful run")

	return matches, nil
}

// Save records the executable's current digest, replacing the sidecar
// wholesale. Readers see either the old digest or the new one, never a
// partial write.
func (c *Cache) Save(ctx context.Context, path string) error {
	digest, err := c.Digest(path)
	if err != nil {
		return err
	}

	recordPath := c.RecordPath(path)
	if err := atomicWrite(recordPath, []byte(digest), constants.HashFilePerm); err != nil {
		return errors.Wrapf(errors.ErrHashIO, "failed to write %s: %v", recordPath, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("artifact", path).
		Str("record", recordPath).
		Str("digest", digest).
		Msg("recorded hash of successful run")

	return nil
}

// Status describes an executable's digest against its sidecar.
type Status struct {
	Artifact      string `json:"artifact" yaml:"artifact"`
	RecordPath    string `json:"record_path" yaml:"record_path"`
	Digest        string `json:"digest" yaml:"digest"`
	StoredDigest  string `json:"stored_digest,omitempty" yaml:"stored_digest,omitempty"`
	RecordPresent bool   `json:"record_present" yaml:"record_present"`
	Matches       bool   `json:"matches" yaml:"matches"`
}

// Status reads the executable's digest and sidecar without changing either.
func (c *Cache) Status(path string) (*Status, error) {
	digest, err := c.Digest(path)
	if err != nil {
		return nil, err
	}

	recordPath := c.RecordPath(path)
	stored, ok, err := c.Load(recordPath)
	if err != nil {
		return nil, err
	}

	return &Status{
		Artifact:      path,
		RecordPath:    recordPath,
		Digest:        digest,
		StoredDigest:  stored,
		RecordPresent: ok,
		Matches:       ok && stored == digest,
	}, nil
}
