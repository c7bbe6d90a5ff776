// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

// Storage signals returned by UserRepository implementations.
// The usecase translates them into domain errors exactly once; they never reach the transport layer.
var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID,
	// or when an update/delete matched no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when a create or update violates the unique email constraint.
	ErrEmailAlreadyExists = errors.New("email already exists")
)
