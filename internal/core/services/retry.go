package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// RetryPolicy is a bounded retry loop with jittered exponential backoff.
// It replaces unbounded retry recursion: a fixed attempt budget, then a
// typed ErrRetryExhausted result the caller can branch on.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; it doubles per
	// attempt up to MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the policy used for inventory uploads.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do runs op until it succeeds, the attempts are exhausted, or ctx ends.
// Auth failures are never retried: bad credentials do not heal between
// attempts, and hammering the server invites a lockout.
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay(attempt)):
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, domain.ErrAuthInvalid) || errors.Is(lastErr, context.Canceled) {
			return lastErr
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", domain.ErrRetryExhausted, attempts, lastErr)
}

// delay returns the jittered backoff before the given attempt (1-based for
// the first retry). Jitter spreads agents that fail in lockstep.
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if d <= 0 {
		return 0
	}
	// Uniform in [d/2, d).
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
