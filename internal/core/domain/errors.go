package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("already recorded")
	ErrForbidden      = errors.New("not eligible")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNetworkFailure = errors.New("network failure")
	ErrInternalServer = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Member errors
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberNotApproved = errors.New("member is not approved")
)
