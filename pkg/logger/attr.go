package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Channel records a delivery channel under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// Recipient records a masked recipient identifier under the key
// "recipient". Callers must mask before logging; raw identifiers never
// belong in logs.
func Recipient(masked string) slog.Attr {
	return slog.String("recipient", masked)
}

// MessageID records the provider message identifier under the key
// "message_id". If id is empty, it returns an empty Attr.
func MessageID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("message_id", id)
}

// CostUSD records the per-message cost under the key "cost_usd".
func CostUSD(cost float64) slog.Attr {
	return slog.Float64("cost_usd", cost)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
