package recipient

import "errors"

var (
	// ErrUnrecognized is returned when an identifier is neither a valid
	// phone number nor a valid email address.
	ErrUnrecognized = errors.New("unrecognized recipient identifier")
)
