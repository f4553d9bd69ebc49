package ratelimit

import (
	"context"
	"math"
	"time"
)

// Limiter enforces sliding window limits per (action, identifier) key.
type Limiter struct {
	store Store
}

// New creates a limiter backed by the given store.
func New(store Store) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Limiter{store: store}, nil
}

// Key builds the storage key for an (action, identifier) pair.
func Key(action, identifier string) string {
	return action + ":" + identifier
}

// Check admits the event if fewer than limit events occurred for the key
// within the trailing window. When denied, Result.RetryAfter reports how
// long until the oldest event slides out of the window.
func (l *Limiter) Check(ctx context.Context, identifier, action string, limit int, window time.Duration) (*Result, error) {
	if identifier == "" || action == "" {
		return nil, ErrKeyRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	now := time.Now()

	allowed, count, oldest, err := l.store.Record(ctx, Key(action, identifier), now, window, limit)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(0, limit-count),
	}

	if !allowed {
		result.RetryAfter = retryAfter(now, oldest, window)
	}

	return result, nil
}

// Reset clears the window for the key, permitting the next event
// immediately. Used after a successful OTP verification so the recipient
// can start a fresh cycle without waiting out the window.
func (l *Limiter) Reset(ctx context.Context, identifier, action string) error {
	if identifier == "" || action == "" {
		return ErrKeyRequired
	}
	return l.store.Delete(ctx, Key(action, identifier))
}

// retryAfter computes the wait until the oldest event leaves the window,
// rounded up to whole seconds and floored at one second.
func retryAfter(now, oldest time.Time, window time.Duration) time.Duration {
	if oldest.IsZero() {
		return time.Second
	}
	secs := int64(math.Ceil((window - now.Sub(oldest)).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
