package domain

import "errors"

// Session errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token available")
	ErrSessionNotFound  = errors.New("session not found")
)

// Error taxonomy of backend failures, keyed by HTTP status.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrServerError        = errors.New("server error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnknown            = errors.New("unknown error")
)

// Use-case errors raised before any backend call.
var (
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrPasswordMismatch    = errors.New("new password and confirmation do not match")
)
