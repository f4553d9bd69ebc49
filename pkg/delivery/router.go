package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/recipient"
)

// maxAttempts caps the failover chain. Three hops covers the full
// whatsapp -> sms -> email walk.
const maxAttempts = 3

// Router is the single entry point for sending a notification. It parses
// the recipient, selects a channel, sends, and on transport failure walks
// the failover chain, attempting each channel at most once.
type Router struct {
	cfg          Config
	availability *Availability
	selector     *Selector
	failover     *FailoverPolicy
	senders      map[Channel]Sender
	log          *slog.Logger
}

type RouterOption func(*Router)

// WithLogger replaces the router's logger.
func WithLogger(log *slog.Logger) RouterOption {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// WithSender overrides the sender for a channel. Used for dev senders and
// in tests.
func WithSender(ch Channel, s Sender) RouterOption {
	return func(r *Router) {
		r.senders[ch] = s
	}
}

// NewRouter builds a router with provider-backed senders for every channel
// whose credentials are configured. A router with no configured channel is
// valid; every Route call will report no_channel_available.
func NewRouter(cfg Config, opts ...RouterOption) (*Router, error) {
	if cfg.SendTimeout <= 0 {
		return nil, fmt.Errorf("%w: SendTimeout must be positive", ErrInvalidConfig)
	}
	if cfg.EmailConfigured() && !recipient.IsValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	availability := NewAvailability(cfg)
	r := &Router{
		cfg:          cfg,
		availability: availability,
		selector:     NewSelector(availability),
		failover:     NewFailoverPolicy(availability, cfg.FailoverEnabled),
		senders:      make(map[Channel]Sender, 3),
		log:          slog.Default().With(logger.Component("delivery")),
	}

	if cfg.WhatsAppConfigured() {
		from := cfg.TwilioWhatsAppFrom
		if !strings.HasPrefix(from, "whatsapp:") {
			from = "whatsapp:" + from
		}
		r.senders[ChannelWhatsApp] = NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, from, cfg.SendTimeout)
	}
	if cfg.SMSConfigured() {
		r.senders[ChannelSMS] = NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.SendTimeout)
	}
	if cfg.EmailConfigured() {
		r.senders[ChannelEmail] = NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.SenderEmail)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Select exposes channel selection without sending, for callers that need
// to know the channel before composing the message.
func (r *Router) Select(rcpt recipient.Recipient, prefs *Preferences) (Channel, error) {
	return r.selector.Select(rcpt, prefs)
}

type routeOptions struct {
	msgType       MessageType
	priority      Priority
	subject       string
	emailFallback string
	prefs         *Preferences
}

type RouteOption func(*routeOptions)

// WithMessageType tags the delivery for logging and auditing.
func WithMessageType(t MessageType) RouteOption {
	return func(o *routeOptions) { o.msgType = t }
}

// WithPriority records the sender's urgency.
func WithPriority(p Priority) RouteOption {
	return func(o *routeOptions) { o.priority = p }
}

// WithSubject sets the email subject. Ignored by WhatsApp and SMS.
func WithSubject(subject string) RouteOption {
	return func(o *routeOptions) { o.subject = subject }
}

// WithEmailFallback supplies the address that lets a phone-shaped recipient
// reach the email channel during failover. Without it the chain ends at
// SMS.
func WithEmailFallback(email string) RouteOption {
	return func(o *routeOptions) { o.emailFallback = email }
}

// WithPreferences applies the recipient's channel preferences.
func WithPreferences(prefs *Preferences) RouteOption {
	return func(o *routeOptions) { o.prefs = prefs }
}

// Route delivers body to the raw recipient identifier and returns a full
// outcome record. It never returns a Go error: unparseable recipients,
// unavailable channels and transport failures are all reported in the
// Result so callers can persist one record per attempt.
func (r *Router) Route(ctx context.Context, to, body string, opts ...RouteOption) Result {
	o := routeOptions{msgType: TypeGeneric, priority: PriorityNormal}
	for _, opt := range opts {
		opt(&o)
	}

	rcpt, err := recipient.Parse(to)
	if err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "unrecognized recipient", logger.Error(err))
		return Result{Status: "failed", ErrorCode: "invalid_recipient", ErrorMessage: err.Error()}
	}

	ch, err := r.selector.Select(rcpt, o.prefs)
	if err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "no channel available",
			logger.Recipient(rcpt.Masked()),
			logger.Error(err),
		)
		return Result{Status: "failed", ErrorCode: "no_channel_available", ErrorMessage: err.Error()}
	}

	original := ch
	attempted := make(map[Channel]bool, maxAttempts)
	var lastErr error

	for len(attempted) < maxAttempts {
		attempted[ch] = true
		started := time.Now()

		receipt, err := r.send(ctx, ch, rcpt, o, body)
		if err == nil {
			result := Result{
				Success:           true,
				Channel:           ch,
				Status:            receipt.Status,
				ProviderMessageID: receipt.ProviderMessageID,
				CostUSD:           ch.CostUSD(),
				WasFailover:       ch != original,
				OriginalChannel:   original,
			}
			r.log.LogAttrs(ctx, slog.LevelInfo, "notification delivered",
				logger.Channel(ch.String()),
				logger.Recipient(rcpt.Masked()),
				logger.MessageID(receipt.ProviderMessageID),
				logger.CostUSD(result.CostUSD),
				logger.Duration(time.Since(started)),
				slog.String("type", string(o.msgType)),
				slog.Int("priority", int(o.priority)),
				slog.Bool("was_failover", result.WasFailover),
			)
			return result
		}

		lastErr = err
		r.log.LogAttrs(ctx, slog.LevelWarn, "send failed",
			logger.Channel(ch.String()),
			logger.Recipient(rcpt.Masked()),
			logger.Error(err),
			logger.Duration(time.Since(started)),
		)

		next, ok := r.failover.Next(ch, rcpt, o.emailFallback)
		if !ok || attempted[next] {
			break
		}
		ch = next
	}

	code, msg := "transport_error", lastErr.Error()
	var terr *TransportError
	if errors.As(lastErr, &terr) {
		code, msg = terr.Code, terr.Message
	}

	return Result{
		Channel:         ch,
		Status:          "failed",
		ErrorCode:       code,
		ErrorMessage:    msg,
		WasFailover:     ch != original,
		OriginalChannel: original,
	}
}

func (r *Router) send(ctx context.Context, ch Channel, rcpt recipient.Recipient, o routeOptions, body string) (*Receipt, error) {
	sender, ok := r.senders[ch]
	if !ok {
		return nil, &TransportError{Code: "sender_not_configured", Message: "no sender registered for channel " + ch.String()}
	}

	addr := rcpt.Canonical
	switch ch {
	case ChannelWhatsApp:
		addr = recipient.WhatsAppAddress(rcpt.Canonical)
	case ChannelEmail:
		if rcpt.IsPhone() {
			addr = recipient.NormalizeEmail(o.emailFallback)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.SendTimeout)
	defer cancel()

	return sender.Send(ctx, addr, Message{Body: body, Subject: o.subject})
}
