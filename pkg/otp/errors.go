package otp

import "errors"

var (
	ErrStoreRequired = errors.New("store is required")
	ErrInvalidLength = errors.New("code length must be between 4 and 10")
	ErrNotFound      = errors.New("no pending verification code")
	ErrStoreFailed   = errors.New("otp store operation failed")
)
