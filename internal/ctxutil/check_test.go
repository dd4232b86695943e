package ctxutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-lang/testwrap/internal/ctxutil"
	"github.com/forge-lang/testwrap/internal/errors"
)

func TestCanceled(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for active context", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ctxutil.Canceled(context.Background()))
	})

	t.Run("returns error for canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, ctxutil.Canceled(ctx), context.Canceled)
	})
}

func TestInterrupted(t *testing.T) {
	t.Parallel()

	t.Run("live context", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ctxutil.Interrupted(context.Background(), "run_normal"))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := ctxutil.Interrupted(ctx, "run_normal")
		require.ErrorIs(t, err, errors.ErrInterrupted)
		assert.Contains(t, err.Error(), "run_normal")
		assert.Contains(t, err.Error(), "context canceled")
	})
}
