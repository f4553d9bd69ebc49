package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the event was admitted into the window.
	Allowed bool

	// Limit is the maximum number of events allowed in the window.
	Limit int

	// Remaining is the number of events left in the current window.
	Remaining int

	// RetryAfter is how long to wait before the next event can be
	// admitted. Zero when the event was allowed; floored at one second
	// otherwise so callers never tell users to retry immediately.
	RetryAfter time.Duration
}

// Store is the timestamp storage backend for the sliding window.
type Store interface {
	// Record atomically prunes timestamps older than now-window, counts
	// the remainder and, if the count is below limit, appends now. It
	// returns whether the event was admitted, the count of events in the
	// window after the call, and the oldest surviving timestamp (zero
	// when the window is empty).
	Record(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (allowed bool, count int, oldest time.Time, err error)

	// Delete removes all timestamps for the key.
	Delete(ctx context.Context, key string) error
}
