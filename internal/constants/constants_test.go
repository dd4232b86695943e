package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodes(t *testing.T) {
	t.Run("success is zero", func(t *testing.T) {
		assert.Equal(t, 0, ExitSuccess)
	})

	t.Run("local failures map to one", func(t *testing.T) {
		assert.Equal(t, 1, ExitFailure)
	})

	t.Run("signal base follows shell convention", func(t *testing.T) {
		assert.Equal(t, 128, ExitSignalBase)
	})
}

func TestValgrindFlags(t *testing.T) {
	flags := []string{
		ValgrindToolMemcheck,
		ValgrindLeakCheckFull,
		ValgrindShowAllLeakKinds,
		ValgrindSuppressionsFlag,
		ValgrindLogFileFlag,
	}
	for _, flag := range flags {
		assert.True(t, strings.HasPrefix(flag, "--"), "%q should be a long flag", flag)
	}
	assert.True(t, strings.HasSuffix(ValgrindSuppressionsFlag, "="))
	assert.True(t, strings.HasSuffix(ValgrindLogFileFlag, "="))
}

func TestSkipEnabledValue(t *testing.T) {
	assert.Equal(t, "1", SkipEnabledValue)
}
