package services

import "errors"

// Sentinel errors returned by services. Handlers map these to HTTP
// status codes; everything else surfaces as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidScore       = errors.New("score is outside the allowed range")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrServiceUnavailable = errors.New("service unavailable")
)
