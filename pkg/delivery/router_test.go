package delivery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/delivery"
)

// stubSender records calls and plays back a scripted sequence of outcomes.
type stubSender struct {
	receipt *delivery.Receipt
	err     error
	calls   []string
}

func (s *stubSender) Send(_ context.Context, to string, _ delivery.Message) (*delivery.Receipt, error) {
	s.calls = append(s.calls, to)
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func okSender(id string) *stubSender {
	return &stubSender{receipt: &delivery.Receipt{ProviderMessageID: id, Status: "sent"}}
}

func failSender(code, msg string) *stubSender {
	return &stubSender{err: &delivery.TransportError{Code: code, Message: msg}}
}

func newRouter(t *testing.T, cfg delivery.Config, senders map[delivery.Channel]delivery.Sender) *delivery.Router {
	t.Helper()

	opts := make([]delivery.RouterOption, 0, len(senders))
	for ch, s := range senders {
		opts = append(opts, delivery.WithSender(ch, s))
	}

	r, err := delivery.NewRouter(cfg, opts...)
	require.NoError(t, err)
	return r
}

func TestRouterRoute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delivers on the selected channel", func(t *testing.T) {
		t.Parallel()

		wa := okSender("SM123")
		r := newRouter(t, fullConfig(), map[delivery.Channel]delivery.Sender{
			delivery.ChannelWhatsApp: wa,
		})

		res := r.Route(ctx, "0821234567", "hello")
		require.True(t, res.Success)
		assert.Equal(t, delivery.ChannelWhatsApp, res.Channel)
		assert.Equal(t, "SM123", res.ProviderMessageID)
		assert.False(t, res.WasFailover)
		assert.Equal(t, delivery.ChannelWhatsApp.CostUSD(), res.CostUSD)
		require.Len(t, wa.calls, 1)
		assert.Equal(t, "whatsapp:+27821234567", wa.calls[0])
	})

	t.Run("whatsapp transport failure fails over to sms", func(t *testing.T) {
		t.Parallel()

		wa := failSender("30007", "carrier violation")
		sms := okSender("SM456")
		r := newRouter(t, fullConfig(), map[delivery.Channel]delivery.Sender{
			delivery.ChannelWhatsApp: wa,
			delivery.ChannelSMS:      sms,
		})

		res := r.Route(ctx, "+27821234567", "hello")
		require.True(t, res.Success)
		assert.Equal(t, delivery.ChannelSMS, res.Channel)
		assert.True(t, res.WasFailover)
		assert.Equal(t, delivery.ChannelWhatsApp, res.OriginalChannel)
		assert.Equal(t, delivery.ChannelSMS.CostUSD(), res.CostUSD)
		assert.Equal(t, []string{"+27821234567"}, sms.calls)
	})

	t.Run("unconfigured whatsapp selects sms without failover", func(t *testing.T) {
		t.Parallel()

		cfg := fullConfig()
		cfg.TwilioWhatsAppFrom = ""
		sms := okSender("SM789")
		r := newRouter(t, cfg, map[delivery.Channel]delivery.Sender{
			delivery.ChannelSMS: sms,
		})

		res := r.Route(ctx, "+27821234567", "hello")
		require.True(t, res.Success)
		assert.Equal(t, delivery.ChannelSMS, res.Channel)
		assert.False(t, res.WasFailover)
	})

	t.Run("full chain reaches email through fallback address", func(t *testing.T) {
		t.Parallel()

		wa := failSender("30007", "carrier violation")
		sms := failSender("30006", "landline unreachable")
		email := okSender("pm-1")
		r := newRouter(t, fullConfig(), map[delivery.Channel]delivery.Sender{
			delivery.ChannelWhatsApp: wa,
			delivery.ChannelSMS:      sms,
			delivery.ChannelEmail:    email,
		})

		res := r.Route(ctx, "+27821234567", "hello", delivery.WithEmailFallback("User@Example.com"))
		require.True(t, res.Success)
		assert.Equal(t, delivery.ChannelEmail, res.Channel)
		assert.True(t, res.WasFailover)
		assert.Equal(t, delivery.ChannelWhatsApp, res.OriginalChannel)
		assert.Equal(t, []string{"user@example.com"}, email.calls)
	})

	t.Run("failover disabled reports the first failure", func(t *testing.T) {
		t.Parallel()

		cfg := fullConfig()
		cfg.FailoverEnabled = false
		wa := failSender("30007", "carrier violation")
		sms := okSender("SM000")
		r := newRouter(t, cfg, map[delivery.Channel]delivery.Sender{
			delivery.ChannelWhatsApp: wa,
			delivery.ChannelSMS:      sms,
		})

		res := r.Route(ctx, "+27821234567", "hello")
		assert.False(t, res.Success)
		assert.Equal(t, "30007", res.ErrorCode)
		assert.Equal(t, "failed", res.Status)
		assert.Empty(t, sms.calls)
	})

	t.Run("chain exhaustion reports the last failure", func(t *testing.T) {
		t.Parallel()

		wa := failSender("30007", "carrier violation")
		sms := failSender("30006", "landline unreachable")
		r := newRouter(t, fullConfig(), map[delivery.Channel]delivery.Sender{
			delivery.ChannelWhatsApp: wa,
			delivery.ChannelSMS:      sms,
		})

		res := r.Route(ctx, "+27821234567", "hello")
		assert.False(t, res.Success)
		assert.Equal(t, delivery.ChannelSMS, res.Channel)
		assert.Equal(t, delivery.ChannelWhatsApp, res.OriginalChannel)
		assert.True(t, res.WasFailover)
		assert.Equal(t, "30006", res.ErrorCode)
		assert.Zero(t, res.CostUSD)
	})

	t.Run("invalid recipient never errors", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, fullConfig(), nil)

		res := r.Route(ctx, "not-a-recipient", "hello")
		assert.False(t, res.Success)
		assert.Equal(t, "invalid_recipient", res.ErrorCode)
	})

	t.Run("email recipient routes straight to email", func(t *testing.T) {
		t.Parallel()

		email := okSender("pm-2")
		r := newRouter(t, fullConfig(), map[delivery.Channel]delivery.Sender{
			delivery.ChannelEmail: email,
		})

		res := r.Route(ctx, "user@example.com", "hello", delivery.WithSubject("Welcome"))
		require.True(t, res.Success)
		assert.Equal(t, delivery.ChannelEmail, res.Channel)
		assert.Equal(t, []string{"user@example.com"}, email.calls)
	})

	t.Run("no channel available is reported in the result", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, delivery.Config{FailoverEnabled: true, SendTimeout: fullConfig().SendTimeout}, nil)

		res := r.Route(ctx, "+27821234567", "hello")
		assert.False(t, res.Success)
		assert.Equal(t, "no_channel_available", res.ErrorCode)
	})
}

func TestNewRouterValidation(t *testing.T) {
	t.Parallel()

	t.Run("send timeout must be positive", func(t *testing.T) {
		t.Parallel()

		cfg := fullConfig()
		cfg.SendTimeout = 0
		_, err := delivery.NewRouter(cfg)
		require.ErrorIs(t, err, delivery.ErrInvalidConfig)
	})

	t.Run("sender email must be valid when email is configured", func(t *testing.T) {
		t.Parallel()

		cfg := fullConfig()
		cfg.SenderEmail = "not-an-email"
		_, err := delivery.NewRouter(cfg)
		require.ErrorIs(t, err, delivery.ErrInvalidConfig)
	})
}
