package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/reelboard/movie-blog-api/internal/adapters/postgres"
)

// Schema mirrors the production DDL. Comment ordering rides the bigserial seq
// column; post deletion cascades to the comments.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	email         text NOT NULL,
	password_hash text NOT NULL,
	is_admin      boolean NOT NULL DEFAULT false,
	created_at    timestamptz NOT NULL,
	updated_at    timestamptz NOT NULL,
	CONSTRAINT users_email_unique UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS posts (
	seq        bigserial,
	id         uuid PRIMARY KEY,
	title      text NOT NULL,
	content    text NOT NULL,
	author     text NOT NULL,
	created_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS post_comments (
	seq     bigserial PRIMARY KEY,
	id      uuid NOT NULL UNIQUE,
	post_id uuid NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id text,
	body    text NOT NULL
);
`

// OpenMigratedPool connects to the database named by TEST_DATABASE_URL,
// applies the schema, and truncates all tables. Tests calling this are skipped
// when the env var is unset, so the default `go test ./...` run stays
// hermetic.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres-backed test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
	if err != nil {
		t.Fatalf("open postgres pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE post_comments, posts, users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}
