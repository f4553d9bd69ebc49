package delivery

import "github.com/dmitrymomot/notifykit/pkg/recipient"

// failoverChain maps a failed channel to the next one to try. Email is
// terminal.
var failoverChain = map[Channel]Channel{
	ChannelWhatsApp: ChannelSMS,
	ChannelSMS:      ChannelEmail,
}

// FailoverPolicy decides where a failed send goes next. The chain is fixed
// (whatsapp -> sms -> email) and the whole mechanism can be switched off in
// configuration, in which case Next never returns a channel.
type FailoverPolicy struct {
	availability *Availability
	enabled      bool
}

func NewFailoverPolicy(availability *Availability, enabled bool) *FailoverPolicy {
	return &FailoverPolicy{availability: availability, enabled: enabled}
}

// Enabled reports whether failover is active.
func (p *FailoverPolicy) Enabled() bool { return p.enabled }

// Next returns the channel to retry on after failed, or false when the
// chain is exhausted. A phone-shaped recipient reaches email only through
// an explicit fallback address; without one the chain ends at SMS.
// Unavailable links are skipped rather than terminating the chain.
func (p *FailoverPolicy) Next(failed Channel, rcpt recipient.Recipient, emailFallback string) (Channel, bool) {
	if !p.enabled {
		return "", false
	}

	for next, ok := failoverChain[failed]; ok; next, ok = failoverChain[next] {
		target := rcpt
		if next == ChannelEmail && rcpt.IsPhone() {
			fallback, err := recipient.Parse(emailFallback)
			if err != nil {
				return "", false
			}
			target = fallback
		}
		if p.availability.Check(next, target).Available {
			return next, true
		}
	}

	return "", false
}
