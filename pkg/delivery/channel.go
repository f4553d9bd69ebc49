package delivery

// Channel is a delivery medium with distinct cost and availability
// characteristics.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
)

func (c Channel) String() string { return string(c) }

// channelCosts is the fixed per-message cost table in USD. Costs are not
// usage-metered; the ordering email < whatsapp < sms is load-bearing for
// channel selection rationale.
var channelCosts = map[Channel]float64{
	ChannelEmail:    0.001,
	ChannelWhatsApp: 0.005,
	ChannelSMS:      0.02,
}

// CostUSD returns the fixed per-message cost for the channel.
func (c Channel) CostUSD() float64 {
	return channelCosts[c]
}

// DefaultOrder is the candidate order for phone-shaped recipients:
// cheapest and most deliverable first.
func DefaultOrder() []Channel {
	return []Channel{ChannelWhatsApp, ChannelSMS, ChannelEmail}
}
