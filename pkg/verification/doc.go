// Package verification is the user-facing OTP flow: request a code, have
// it delivered over the best channel, and verify it under rate limits.
//
// It composes the lower layers: pkg/recipient parses identifiers,
// pkg/ratelimit throttles requests and attempts, pkg/otp issues and checks
// codes, and pkg/delivery carries the message.
//
//	svc, err := verification.NewService(cfg, codes, router, limiter)
//	send, err := svc.SendOTP(ctx, "082 123 4567")
//	out, err := svc.VerifyOTP(ctx, "082 123 4567", userInput)
//
// Verification results are deliberately opaque to end users: every invalid
// outcome (unknown identifier, expired code, wrong code, locked record)
// carries the same message so the API cannot be used as an oracle. The
// precise reason is logged server-side only.
package verification
