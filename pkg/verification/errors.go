package verification

import "errors"

var (
	ErrCodesRequired   = errors.New("otp service is required")
	ErrRouterRequired  = errors.New("delivery router is required")
	ErrLimiterRequired = errors.New("rate limiter is required")
)
