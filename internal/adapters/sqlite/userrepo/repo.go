package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/ports/out/userrepo"
)

// Repo is a sqlite implementation of userrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(u.ID),
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "users.email") {
				return userrepo.ErrEmailTaken
			}
			return userrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	return r.get(ctx, `WHERE id = ?`, string(id))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	return r.get(ctx, `WHERE email = ?`, email)
}

func (r *Repo) get(ctx context.Context, where string, arg any) (userrepo.User, error) {
	var u userrepo.User
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, is_admin, created_at, updated_at
		FROM users
	`+where, arg).Scan(&id, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return userrepo.User{}, userrepo.ErrNotFound
		}
		return userrepo.User{}, err
	}
	u.ID = domain.UserID(id)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
