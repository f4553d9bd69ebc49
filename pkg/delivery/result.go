package delivery

// MessageType classifies the payload for logging and auditing. It does not
// affect routing.
type MessageType string

const (
	TypeGeneric  MessageType = "generic"
	TypeOTP      MessageType = "otp"
	TypeReminder MessageType = "reminder"
	TypeAlert    MessageType = "alert"
)

// Priority expresses sender urgency. Recorded alongside the delivery, not
// used for routing decisions.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

// Result is the complete outcome of a routing attempt. Route reports every
// delivery failure here rather than as a Go error, so callers always get a
// structured record they can persist or audit.
type Result struct {
	Success           bool
	Channel           Channel
	Status            string
	ProviderMessageID string
	ErrorCode         string
	ErrorMessage      string
	CostUSD           float64
	WasFailover       bool
	OriginalChannel   Channel
}
