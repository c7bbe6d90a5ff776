// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Error kinds. Every domain error unwraps to exactly one of these, and the
// HTTP layer maps each kind to a single response status.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a domain error carrying a user-facing message and its kind.
type Error struct {
	Kind    error
	Message string
}

// NewError creates a domain error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the kind so that errors.Is(err, ErrConflict) and friends work.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Domain errors for account operations.
var (
	// ErrInvalidCredentials is returned by signin for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = NewError(ErrUnauthorized, "Invalid credentials")

	// ErrInvalidToken is returned when a bearer token is malformed, tampered with or expired.
	ErrInvalidToken = NewError(ErrUnauthorized, "invalid token")

	// ErrCredentialsTaken is returned by signup when the email is already registered.
	ErrCredentialsTaken = NewError(ErrConflict, "Credentials taken")

	// ErrEmailInUse is returned by update when the new email belongs to another user.
	ErrEmailInUse = NewError(ErrConflict, "Email already in use")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = NewError(ErrNotFound, "User not found")

	// ErrNotOwner is returned when an authenticated caller targets another user's account.
	ErrNotOwner = NewError(ErrForbidden, "You can only modify your own account")
)

// Validation wraps a request validation failure message as a domain error.
func Validation(message string) *Error {
	return NewError(ErrValidation, message)
}
