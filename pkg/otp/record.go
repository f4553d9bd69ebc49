package otp

import "time"

// Record is a stored verification code. Only the bcrypt hash of the code
// is persisted, never the plaintext.
type Record struct {
	ID         string
	Identifier string
	Channel    string
	HashedCode string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Attempts   int
	VerifiedAt *time.Time
}

// Expired reports whether the record's TTL has elapsed.
func (r *Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Verified reports whether the record was successfully verified.
func (r *Record) Verified() bool {
	return r.VerifiedAt != nil
}
