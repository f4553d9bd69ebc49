package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/otp"
	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
	"github.com/dmitrymomot/notifykit/pkg/recipient"
)

// Rate limit actions. Send and verify are throttled independently so a
// flood of wrong guesses cannot block legitimate resends and vice versa.
const (
	actionSend   = "otp_send"
	actionVerify = "otp_verify"
)

// User-facing messages. Every invalid verification outcome shares one
// message; the real reason stays in server logs.
const (
	msgInvalidCode     = "Invalid or expired verification code."
	msgTooManySends    = "Too many verification codes requested. Please try again later."
	msgTooManyAttempts = "Too many verification attempts. Please try again later."
	msgDeliveryFailed  = "We could not deliver your verification code. Please try again."
)

// Config tunes the OTP flow. Defaults match a small consumer-facing
// deployment: three codes and five guesses per identifier per quarter hour.
type Config struct {
	CodeLength   int           `env:"OTP_CODE_LENGTH" envDefault:"6"`
	SendLimit    int           `env:"OTP_SEND_LIMIT" envDefault:"3"`
	SendWindow   time.Duration `env:"OTP_SEND_WINDOW" envDefault:"15m"`
	VerifyLimit  int           `env:"OTP_VERIFY_LIMIT" envDefault:"5"`
	VerifyWindow time.Duration `env:"OTP_VERIFY_WINDOW" envDefault:"15m"`
}

// SendStatus classifies a SendOTP outcome.
type SendStatus string

const (
	StatusSent        SendStatus = "sent"
	StatusRateLimited SendStatus = "rate_limited"
	StatusFailed      SendStatus = "failed"
)

// SendResult is the outcome of an OTP send request. Message is safe to
// show to the end user.
type SendResult struct {
	Status     SendStatus
	Channel    delivery.Channel
	RetryAfter time.Duration
	Message    string
}

// VerifyOutcome is the outcome of a verification attempt. Message is safe
// to show to the end user; RetryAfter is set only when rate limited.
type VerifyOutcome struct {
	Valid      bool
	RetryAfter time.Duration
	Message    string
}

// Service drives the end-to-end OTP flow.
type Service struct {
	cfg     Config
	codes   *otp.Service
	router  *delivery.Router
	limiter *ratelimit.Limiter
	log     *slog.Logger
}

type Option func(*Service)

// WithLogger replaces the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService wires the OTP flow from its collaborators. Zero-value config
// fields fall back to defaults so a hand-built Config{} works in tests.
func NewService(cfg Config, codes *otp.Service, router *delivery.Router, limiter *ratelimit.Limiter, opts ...Option) (*Service, error) {
	if codes == nil {
		return nil, ErrCodesRequired
	}
	if router == nil {
		return nil, ErrRouterRequired
	}
	if limiter == nil {
		return nil, ErrLimiterRequired
	}

	if cfg.CodeLength == 0 {
		cfg.CodeLength = otp.DefaultLength
	}
	if cfg.SendLimit == 0 {
		cfg.SendLimit = 3
	}
	if cfg.SendWindow == 0 {
		cfg.SendWindow = 15 * time.Minute
	}
	if cfg.VerifyLimit == 0 {
		cfg.VerifyLimit = 5
	}
	if cfg.VerifyWindow == 0 {
		cfg.VerifyWindow = 15 * time.Minute
	}

	s := &Service{
		cfg:     cfg,
		codes:   codes,
		router:  router,
		limiter: limiter,
		log:     slog.Default().With(logger.Component("verification")),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// SendOTP issues a verification code for the identifier and delivers it.
// The code is persisted before any send attempt, so a delivery failure
// leaves a valid code behind that a later resend supersedes.
//
// The returned error covers infrastructure failures only (rate limit
// store, code store). Rate limiting and delivery failures are reported in
// the SendResult.
func (s *Service) SendOTP(ctx context.Context, identifier string, routeOpts ...delivery.RouteOption) (SendResult, error) {
	rcpt, err := recipient.Parse(identifier)
	if err != nil {
		return SendResult{Status: StatusFailed, Message: msgDeliveryFailed}, err
	}

	limit, err := s.limiter.Check(ctx, rcpt.Canonical, actionSend, s.cfg.SendLimit, s.cfg.SendWindow)
	if err != nil {
		return SendResult{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !limit.Allowed {
		s.log.LogAttrs(ctx, slog.LevelWarn, "otp send rate limited",
			logger.Recipient(rcpt.Masked()),
			slog.Duration("retry_after", limit.RetryAfter),
		)
		return SendResult{
			Status:     StatusRateLimited,
			RetryAfter: limit.RetryAfter,
			Message:    msgTooManySends,
		}, nil
	}

	// Channel is selected before issuing so the stored record names the
	// channel the code goes out on, and so an undeliverable identifier
	// never consumes a code.
	channel, err := s.router.Select(rcpt, nil)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "no channel for otp delivery",
			logger.Recipient(rcpt.Masked()),
			logger.Error(err),
		)
		return SendResult{Status: StatusFailed, Message: msgDeliveryFailed}, nil
	}

	code, err := s.codes.Issue(ctx, rcpt.Canonical, channel.String(), s.cfg.CodeLength)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to issue verification code: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(otp.TTL.Minutes()))

	opts := append([]delivery.RouteOption{
		delivery.WithMessageType(delivery.TypeOTP),
		delivery.WithPriority(delivery.PriorityHigh),
		delivery.WithSubject("Your verification code"),
	}, routeOpts...)

	res := s.router.Route(ctx, rcpt.Canonical, body, opts...)
	if !res.Success {
		s.log.LogAttrs(ctx, slog.LevelWarn, "otp delivery failed",
			logger.Recipient(rcpt.Masked()),
			logger.Channel(res.Channel.String()),
			slog.String("error_code", res.ErrorCode),
		)
		return SendResult{Status: StatusFailed, Channel: res.Channel, Message: msgDeliveryFailed}, nil
	}

	s.log.LogAttrs(ctx, slog.LevelInfo, "otp sent",
		logger.Recipient(rcpt.Masked()),
		logger.Channel(res.Channel.String()),
		logger.MessageID(res.ProviderMessageID),
		slog.Bool("was_failover", res.WasFailover),
	)

	return SendResult{Status: StatusSent, Channel: res.Channel}, nil
}

// VerifyOTP checks a submitted code. Storage failures return an error and
// must be treated as verification failure by callers; the flow fails
// closed.
//
// A successful verification resets both rate limit buckets for the
// identifier so the user starts the next cycle clean.
func (s *Service) VerifyOTP(ctx context.Context, identifier, code string) (VerifyOutcome, error) {
	rcpt, err := recipient.Parse(identifier)
	if err != nil {
		// Same message as a wrong code so identifier validity leaks nothing.
		return VerifyOutcome{Message: msgInvalidCode}, nil
	}

	limit, err := s.limiter.Check(ctx, rcpt.Canonical, actionVerify, s.cfg.VerifyLimit, s.cfg.VerifyWindow)
	if err != nil {
		return VerifyOutcome{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !limit.Allowed {
		s.log.LogAttrs(ctx, slog.LevelWarn, "otp verify rate limited",
			logger.Recipient(rcpt.Masked()),
			slog.Duration("retry_after", limit.RetryAfter),
		)
		return VerifyOutcome{
			RetryAfter: limit.RetryAfter,
			Message:    msgTooManyAttempts,
		}, nil
	}

	res, err := s.codes.Verify(ctx, rcpt.Canonical, code)
	if err != nil {
		return VerifyOutcome{}, fmt.Errorf("verification failed: %w", err)
	}
	if !res.Valid {
		return VerifyOutcome{Message: msgInvalidCode}, nil
	}

	if err := errors.Join(
		s.limiter.Reset(ctx, rcpt.Canonical, actionSend),
		s.limiter.Reset(ctx, rcpt.Canonical, actionVerify),
	); err != nil {
		// Verification already succeeded; a failed reset only delays the
		// next cycle, so log and move on.
		s.log.LogAttrs(ctx, slog.LevelWarn, "rate limit reset failed",
			logger.Recipient(rcpt.Masked()),
			logger.Error(err),
		)
	}

	s.log.LogAttrs(ctx, slog.LevelInfo, "otp verified",
		logger.Recipient(rcpt.Masked()),
	)

	return VerifyOutcome{Valid: true}, nil
}
