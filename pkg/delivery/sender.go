package delivery

import (
	"context"
	"fmt"
)

// Receipt is the provider's acknowledgement of an accepted message.
type Receipt struct {
	ProviderMessageID string
	Status            string
}

// Message is the provider-independent payload handed to a Sender. Subject
// only applies to email; other channels ignore it.
type Message struct {
	Body    string
	Subject string
}

// Sender delivers a message to one address over a single channel. The
// address is already in provider form: E.164 for SMS, whatsapp:-prefixed
// E.164 for WhatsApp, a bare address for email.
type Sender interface {
	Send(ctx context.Context, to string, msg Message) (*Receipt, error)
}

// TransportError is a send failure attributable to the provider or the
// network. The router treats any error from a Sender as transport failure;
// this type additionally carries a provider error code when one exists.
type TransportError struct {
	Code    string
	Message string
}

func (e *TransportError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
