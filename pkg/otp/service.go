package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

const (
	// TTL is the fixed lifetime of a verification code.
	TTL = 10 * time.Minute

	// MaxAttempts caps checked verification attempts per record. Once
	// reached the record is locked and no code, correct or not, verifies.
	MaxAttempts = 3

	// cleanupRetention is how long expired records linger before Cleanup
	// removes them.
	cleanupRetention = time.Hour
)

// Internal reasons for invalid verification results. Logged, never echoed
// verbatim to end users, so the distinction between a wrong code and a
// locked record cannot be probed externally.
const (
	ReasonNotFound         = "No verification code found"
	ReasonExpired          = "Verification code has expired"
	ReasonAttemptsExceeded = "Maximum verification attempts exceeded"
	ReasonMismatch         = "Incorrect verification code"
)

// VerifyResult is the outcome of a verification attempt. Reason is set
// only when Valid is false.
type VerifyResult struct {
	Valid  bool
	Reason string
}

// Service orchestrates code issuance and verification against a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates an OTP service backed by the given store.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Service{
		store:  store,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue generates a code, stores its hash with the fixed TTL and returns
// the plaintext for out-of-band delivery. The record is persisted before
// the caller attempts any send, so a storage failure here aborts the flow
// with no code in flight.
func (s *Service) Issue(ctx context.Context, identifier, channel string, length int) (string, error) {
	code, err := Generate(length)
	if err != nil {
		return "", err
	}

	hash, err := Hash(code)
	if err != nil {
		return "", err
	}

	now := time.Now()
	record := Record{
		ID:         uuid.New().String(),
		Identifier: identifier,
		Channel:    channel,
		HashedCode: hash,
		CreatedAt:  now,
		ExpiresAt:  now.Add(TTL),
	}

	if err := s.store.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "verification code issued",
		slog.String("record_id", record.ID),
		slog.String("channel", channel),
		logger.Component("otp"),
	)

	return code, nil
}

// Verify checks code against the latest unverified record for the
// identifier. Every failure mode yields an invalid result rather than an
// error; the returned error is reserved for store failures, which callers
// must treat as fail-closed.
//
// Expired and attempt-exhausted records are terminal: they stay invalid
// for any code. A checked attempt, right or wrong, increments the attempt
// counter before the hash comparison runs.
func (s *Service) Verify(ctx context.Context, identifier, code string) (VerifyResult, error) {
	record, err := s.store.LatestUnverified(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.invalid(ctx, "", ReasonNotFound), nil
		}
		return VerifyResult{}, err
	}

	now := time.Now()

	if record.Attempts >= MaxAttempts {
		return s.invalid(ctx, record.ID, ReasonAttemptsExceeded), nil
	}
	if record.Expired(now) {
		return s.invalid(ctx, record.ID, ReasonExpired), nil
	}

	if _, err := s.store.IncrementAttempts(ctx, record.ID); err != nil {
		return VerifyResult{}, err
	}

	if !Compare(code, record.HashedCode) {
		return s.invalid(ctx, record.ID, ReasonMismatch), nil
	}

	if err := s.store.MarkVerified(ctx, record.ID, now); err != nil {
		return VerifyResult{}, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "verification code accepted",
		slog.String("record_id", record.ID),
		logger.Component("otp"),
	)

	return VerifyResult{Valid: true}, nil
}

// Cleanup removes records more than cleanupRetention past expiry. Intended
// to run off the critical path, e.g. from a cron tick.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	dropped, err := s.store.DeleteExpiredBefore(ctx, time.Now().Add(-cleanupRetention))
	if err != nil {
		return 0, err
	}

	if dropped > 0 {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "expired verification codes removed",
			slog.Int("count", dropped),
			logger.Component("otp"),
		)
	}

	return dropped, nil
}

func (s *Service) invalid(ctx context.Context, recordID, reason string) VerifyResult {
	s.logger.LogAttrs(ctx, slog.LevelDebug, "verification code rejected",
		slog.String("record_id", recordID),
		slog.String("reason", reason),
		logger.Component("otp"),
	)
	return VerifyResult{Valid: false, Reason: reason}
}
