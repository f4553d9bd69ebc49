// Package ratelimit provides a sliding window rate limiter keyed by
// (action, identifier) pairs, used to bound OTP sends and verification
// attempts per recipient.
//
// The limiter tracks individual event timestamps inside a trailing window,
// so limits are exact rather than approximated by fixed buckets:
//
//	limiter, _ := ratelimit.New(ratelimit.NewMemoryStore())
//	res, err := limiter.Check(ctx, "+27821234567", "otp_send", 3, 15*time.Minute)
//	if err == nil && !res.Allowed {
//	    // reject; res.RetryAfter says when the oldest event leaves the window
//	}
//
// The in-memory store is safe for concurrent use behind a single mutex and
// prunes stale entries inline during Check - there are no background
// goroutines. Correctness of the sliding window depends on all checks for
// an identifier passing through the same store; multi-instance deployments
// must use the Redis-backed store instead.
package ratelimit
