package userrepo

import (
	"context"
	"time"

	"github.com/reelboard/movie-blog-api/internal/domain"
)

// User is the persistence shape used by the user repository.
type User struct {
	ID    domain.UserID
	Email string

	// PasswordHash is the bcrypt hash of the user's password. It is stored and
	// compared here, never returned by an API projection.
	PasswordHash string

	IsAdmin bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted user accounts.
//
// Email lookups are performed on the normalized (lowercased, trimmed) address;
// callers normalize before calling.
type Repository interface {
	Create(ctx context.Context, u User) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
