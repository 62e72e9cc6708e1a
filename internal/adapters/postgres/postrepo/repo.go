package postrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/reelboard/movie-blog-api/internal/adapters/postgres"
	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
)

// Repo is a Postgres implementation of postrepo.Repository.
//
// Comments live in post_comments ordered by a bigserial seq column;
// AddComment/RemoveComment are single-statement writes, so concurrent comment
// writers on one post serialize at the database instead of losing updates.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p postrepo.Post) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	postUUID, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid post id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO posts (id, title, content, author, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`,
			postUUID,
			p.Title,
			p.Content,
			p.Author,
			p.CreatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return postrepo.ErrAlreadyExists
			}
			return err
		}
		for _, c := range p.Comments {
			if err := insertComment(ctx, tx, postUUID, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) Update(ctx context.Context, p postrepo.Post) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	postUUID, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid post id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $2,
		    content = $3,
		    author = $4
		WHERE id = $1
	`, postUUID, p.Title, p.Content, p.Author)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return postrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PostID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	postUUID, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("invalid post id: %w", err)
	}

	// post_comments rows go with the post via ON DELETE CASCADE.
	ct, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postUUID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return postrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PostID) (postrepo.Post, error) {
	if r.pool == nil {
		return postrepo.Post{}, errors.New("nil postgres pool")
	}
	postUUID, err := uuid.Parse(string(id))
	if err != nil {
		return postrepo.Post{}, fmt.Errorf("invalid post id: %w", err)
	}

	var p postrepo.Post
	err = r.pool.QueryRow(ctx, `
		SELECT id, title, content, author, created_at
		FROM posts
		WHERE id = $1
	`, postUUID).Scan(&postUUID, &p.Title, &p.Content, &p.Author, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return postrepo.Post{}, postrepo.ErrNotFound
		}
		return postrepo.Post{}, err
	}
	p.ID = domain.PostID(postUUID.String())
	p.CreatedAt = p.CreatedAt.UTC()

	p.Comments, err = r.commentsFor(ctx, postUUID)
	if err != nil {
		return postrepo.Post{}, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]postrepo.Post, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, author, created_at
		FROM posts
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]postrepo.Post, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var p postrepo.Post
		var id uuid.UUID
		if err := rows.Scan(&id, &p.Title, &p.Content, &p.Author, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ID = domain.PostID(id.String())
		p.CreatedAt = p.CreatedAt.UTC()
		p.Comments = []postrepo.Comment{}
		out = append(out, p)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		cs, err := r.commentsFor(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i].Comments = cs
	}
	return out, nil
}

func (r *Repo) AddComment(ctx context.Context, id domain.PostID, c postrepo.Comment) (postrepo.Post, error) {
	if r.pool == nil {
		return postrepo.Post{}, errors.New("nil postgres pool")
	}
	postUUID, err := uuid.Parse(string(id))
	if err != nil {
		return postrepo.Post{}, fmt.Errorf("invalid post id: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return insertComment(ctx, tx, postUUID, c)
	})
	if err != nil {
		return postrepo.Post{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) RemoveComment(ctx context.Context, id domain.PostID, commentID domain.CommentID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	postUUID, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("invalid post id: %w", err)
	}
	commentUUID, err := uuid.Parse(string(commentID))
	if err != nil {
		// Not a valid comment id; by contract the comment cannot exist, but the
		// post might not either, so check it first.
		return r.commentMissingReason(ctx, postUUID)
	}

	ct, err := r.pool.Exec(ctx, `
		DELETE FROM post_comments
		WHERE id = $1 AND post_id = $2
	`, commentUUID, postUUID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.commentMissingReason(ctx, postUUID)
	}
	return nil
}

// commentMissingReason distinguishes "post absent" from "comment absent".
func (r *Repo) commentMissingReason(ctx context.Context, postUUID uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postUUID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return postrepo.ErrNotFound
	}
	return postrepo.ErrCommentNotFound
}

func (r *Repo) commentsFor(ctx context.Context, postUUID uuid.UUID) ([]postrepo.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, body
		FROM post_comments
		WHERE post_id = $1
		ORDER BY seq ASC
	`, postUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]postrepo.Comment, 0)
	for rows.Next() {
		var c postrepo.Comment
		var id uuid.UUID
		var userID *string
		if err := rows.Scan(&id, &userID, &c.Body); err != nil {
			return nil, err
		}
		c.ID = domain.CommentID(id.String())
		if userID != nil {
			v := domain.UserID(*userID)
			c.UserID = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func insertComment(ctx context.Context, tx pgx.Tx, postUUID uuid.UUID, c postrepo.Comment) error {
	commentUUID, err := uuid.Parse(string(c.ID))
	if err != nil {
		return fmt.Errorf("invalid comment id: %w", err)
	}
	var userID *string
	if c.UserID != nil {
		v := string(*c.UserID)
		userID = &v
	}
	ct, err := tx.Exec(ctx, `
		INSERT INTO post_comments (id, post_id, user_id, body)
		SELECT $1, p.id, $3, $4
		FROM posts p
		WHERE p.id = $2
	`, commentUUID, postUUID, userID, c.Body)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return postrepo.ErrNotFound
	}
	return nil
}
