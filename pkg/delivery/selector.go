package delivery

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/recipient"
)

// Preferences narrow or reorder the channel candidates for a recipient.
// A nil Preferences means defaults: no SMS restriction and the standard
// whatsapp, sms, email order.
type Preferences struct {
	// ChannelPriority overrides the candidate order when non-empty.
	ChannelPriority []Channel
	// SMSOptIn removes SMS from consideration when explicitly false.
	// Nil means no stated preference, which permits SMS.
	SMSOptIn *bool
}

func (p *Preferences) allowsSMS() bool {
	return p == nil || p.SMSOptIn == nil || *p.SMSOptIn
}

func (p *Preferences) order() []Channel {
	if p != nil && len(p.ChannelPriority) > 0 {
		return p.ChannelPriority
	}
	return DefaultOrder()
}

// Selector picks the delivery channel for a recipient. Selection is
// deterministic: same recipient, preferences and configuration always
// yield the same channel.
type Selector struct {
	availability *Availability
}

func NewSelector(availability *Availability) *Selector {
	return &Selector{availability: availability}
}

// Select returns the first available channel for rcpt. Email-shaped
// recipients can only be reached by email regardless of preferences.
// Phone-shaped recipients walk the preference order, skipping SMS when the
// recipient has opted out. When nothing is available the error aggregates
// each candidate's reason.
func (s *Selector) Select(rcpt recipient.Recipient, prefs *Preferences) (Channel, error) {
	candidates := s.candidates(rcpt, prefs)

	reasons := make([]string, 0, len(candidates))
	for _, ch := range candidates {
		res := s.availability.Check(ch, rcpt)
		if res.Available {
			return ch, nil
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", ch, res.Reason))
	}

	if len(reasons) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoChannelAvailable, rcpt.Masked())
	}
	return "", fmt.Errorf("%w for %s (%s)", ErrNoChannelAvailable, rcpt.Masked(), strings.Join(reasons, "; "))
}

func (s *Selector) candidates(rcpt recipient.Recipient, prefs *Preferences) []Channel {
	if rcpt.IsEmail() {
		return []Channel{ChannelEmail}
	}

	order := prefs.order()
	candidates := make([]Channel, 0, len(order))
	for _, ch := range order {
		if ch == ChannelSMS && !prefs.allowsSMS() {
			continue
		}
		candidates = append(candidates, ch)
	}
	return candidates
}
