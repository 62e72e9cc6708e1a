package domain

import "time"

// User is the domain representation of a user account.
//
// PasswordHash is a bcrypt hash and must never appear in an API projection.
type User struct {
	ID    UserID
	Email string

	PasswordHash string

	IsAdmin bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
