package otp

import (
	"context"
	"time"
)

// Store persists verification code records. Implementations must be safe
// for concurrent use; attempt counters are only sound when every
// verification for an identifier goes through the same store.
type Store interface {
	// Create persists a new record. An existing pending record for the
	// same identifier is superseded.
	Create(ctx context.Context, record Record) error

	// LatestUnverified returns the most recent record for the identifier
	// that has not been verified, or ErrNotFound.
	LatestUnverified(ctx context.Context, identifier string) (*Record, error)

	// IncrementAttempts bumps the attempt counter and returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// MarkVerified stamps the record verified at the given time. A record
	// can only be marked once.
	MarkVerified(ctx context.Context, id string, at time.Time) error

	// DeleteExpiredBefore removes records whose expiry is older than the
	// cutoff, returning how many were dropped.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}
