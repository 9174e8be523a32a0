// internal/app/system/retry/retry.go

// Package retry wraps an operation with bounded retry. Retryability is
// decided by storeerr: only transient classes (unavailable, deadline,
// resource exhaustion) retry; permission, not-found, and invalid-argument
// failures surface immediately.
//
// Operations passed in must be safe to repeat. Counter increments are NOT:
// after an ambiguous failure the increment may have applied, so callers
// never wrap follower-count adjustments in a retry (see cascade package).
package retry

import (
	"context"
	"time"

	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
)

// DefaultAttempts and DefaultBaseDelay are the tunables used when a caller
// passes zero values.
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 200 * time.Millisecond
)

// Run invokes op up to maxAttempts times, sleeping baseDelay multiplied by
// the attempt number between tries (linear backoff, not pure exponential).
// The last error is returned after attempts are exhausted. A context
// cancellation during backoff returns ctx.Err immediately.
func Run(ctx context.Context, maxAttempts int, baseDelay time.Duration, op func(context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !storeerr.IsTransient(storeerr.ClassOf(lastErr)) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, baseDelay*time.Duration(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// Do is Run for operations that produce a value.
func Do[T any](ctx context.Context, maxAttempts int, baseDelay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := Run(ctx, maxAttempts, baseDelay, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
