// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier assigned at creation.
	ID uint

	// Email is the address used for signin. Unique across all users, compared case-sensitively.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// It never leaves the service through the HTTP surface.
	PasswordHash string

	// FirstName and LastName are optional profile fields; nil means unset.
	FirstName *string
	LastName  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch is a partial update of a user's profile. Nil fields are left unchanged.
// The password is not patchable.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil
}
