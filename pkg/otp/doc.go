// Package otp implements the one-time passcode lifecycle: cryptographically
// secure generation, bcrypt hashing, fail-closed verification with attempt
// limiting, and expiry.
//
// Plaintext codes exist only in memory between generation and delivery;
// only the bcrypt hash is ever stored. Verification collapses every failure
// mode (missing record, expiry, attempt exhaustion, mismatch) into a single
// invalid result so callers cannot build an oracle that distinguishes a
// wrong code from a locked record.
//
//	svc, _ := otp.NewService(otp.NewMemoryStore())
//	code, _ := svc.Issue(ctx, "+27821234567", "sms", otp.DefaultLength)
//	// deliver code out of band, then later:
//	result, _ := svc.Verify(ctx, "+27821234567", submitted)
//	if result.Valid { ... }
package otp
