package delivery

import "github.com/dmitrymomot/notifykit/pkg/recipient"

// AvailabilityResult explains whether a channel can carry a message to a
// recipient right now. The check never errors; an unavailable channel
// carries a human-readable reason instead.
type AvailabilityResult struct {
	Available bool
	Reason    string
}

// Availability answers channel availability questions from static
// configuration and recipient shape. It performs no network calls.
type Availability struct {
	cfg Config
}

func NewAvailability(cfg Config) *Availability {
	return &Availability{cfg: cfg}
}

// Check reports whether ch can deliver to rcpt. A channel is available when
// its provider credentials are fully configured and the recipient is shaped
// for it: a valid mobile number for WhatsApp and SMS, a valid email address
// for email.
func (a *Availability) Check(ch Channel, rcpt recipient.Recipient) AvailabilityResult {
	switch ch {
	case ChannelWhatsApp:
		if !a.cfg.WhatsAppConfigured() {
			return AvailabilityResult{Reason: "WhatsApp credentials are not configured"}
		}
		if rcpt.Kind != recipient.KindPhone {
			return AvailabilityResult{Reason: "recipient is not a mobile number"}
		}
	case ChannelSMS:
		if !a.cfg.SMSConfigured() {
			return AvailabilityResult{Reason: "SMS credentials are not configured"}
		}
		if rcpt.Kind != recipient.KindPhone {
			return AvailabilityResult{Reason: "recipient is not a mobile number"}
		}
	case ChannelEmail:
		if !a.cfg.EmailConfigured() {
			return AvailabilityResult{Reason: "email credentials are not configured"}
		}
		if rcpt.Kind != recipient.KindEmail {
			return AvailabilityResult{Reason: "recipient is not an email address"}
		}
	default:
		return AvailabilityResult{Reason: "unknown channel " + ch.String()}
	}

	return AvailabilityResult{Available: true}
}
