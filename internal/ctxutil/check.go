// Package ctxutil has small helpers for checking a run's context between
// blocking steps.
package ctxutil

import (
	"context"

	"github.com/forge-lang/testwrap/internal/errors"
)

// Canceled returns ctx.Err().
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Interrupted returns an error wrapping errors.ErrInterrupted once ctx is
// done, naming the step that observed it. It returns nil while ctx is live.
func Interrupted(ctx context.Context, step string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(errors.ErrInterrupted, "%s: %v", step, err)
	}
	return nil
}
