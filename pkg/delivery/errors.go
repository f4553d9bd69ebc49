package delivery

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid delivery configuration")
	ErrNoChannelAvailable = errors.New("no channel available")
	ErrUnknownChannel     = errors.New("unknown channel")
)
