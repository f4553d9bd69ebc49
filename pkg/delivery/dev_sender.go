package delivery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/recipient"
)

// DevSender logs messages instead of delivering them. Use it in local
// development and tests where no provider credentials exist.
type DevSender struct {
	channel Channel
	log     *slog.Logger
}

func NewDevSender(channel Channel, log *slog.Logger) *DevSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{channel: channel, log: log}
}

func (s *DevSender) Send(ctx context.Context, to string, msg Message) (*Receipt, error) {
	id := uuid.NewString()

	masked := recipient.MaskPhone(to)
	if strings.Contains(to, "@") {
		masked = recipient.MaskEmail(to)
	}

	s.log.LogAttrs(ctx, slog.LevelInfo, "dev sender delivery",
		slog.String("channel", s.channel.String()),
		slog.String("to", masked),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
		slog.String("message_id", id),
	)
	return &Receipt{ProviderMessageID: id, Status: "sent"}, nil
}
