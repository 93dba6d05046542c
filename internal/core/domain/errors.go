package domain

import "errors"

// Authentication failures (401).
var (
	ErrNoToken            = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownSubject     = errors.New("token subject not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Authorization failures (403).
var ErrForbidden = errors.New("access forbidden")

// Lookup failures (404).
var (
	ErrUserNotFound = errors.New("user not found")
	ErrLeadNotFound = errors.New("lead not found")
)

var (
	ErrUserExists        = errors.New("user already exists with this email")
	ErrInvalidInput      = errors.New("invalid input")
	ErrSigningKeyMissing = errors.New("token signing key is not configured")
)

// ValidationError is a 400-class failure with a message safe to show callers.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}
