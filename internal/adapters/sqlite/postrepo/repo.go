package postrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
)

// Repo is a sqlite implementation of postrepo.Repository.
//
// Comments live in post_comments ordered by an AUTOINCREMENT seq column.
// AddComment and RemoveComment are single-statement writes; sqlite serializes
// them on the connection, so concurrent comment writers never lose updates.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, p postrepo.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, author, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(p.ID), p.Title, p.Content, p.Author, p.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return postrepo.ErrAlreadyExists
		}
		return err
	}
	for _, c := range p.Comments {
		if err := insertComment(ctx, tx, string(p.ID), c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) Update(ctx context.Context, p postrepo.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET title = ?, content = ?, author = ?
		WHERE id = ?
	`, p.Title, p.Content, p.Author, string(p.ID))
	if err != nil {
		return err
	}
	return mapRowsAffected(res, postrepo.ErrNotFound)
}

func (r *Repo) Delete(ctx context.Context, id domain.PostID) error {
	// post_comments rows go with the post via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return mapRowsAffected(res, postrepo.ErrNotFound)
}

func (r *Repo) GetByID(ctx context.Context, id domain.PostID) (postrepo.Post, error) {
	var p postrepo.Post
	var rawID string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, author, created_at
		FROM posts
		WHERE id = ?
	`, string(id)).Scan(&rawID, &p.Title, &p.Content, &p.Author, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postrepo.Post{}, postrepo.ErrNotFound
		}
		return postrepo.Post{}, err
	}
	p.ID = domain.PostID(rawID)
	p.CreatedAt = p.CreatedAt.UTC()

	p.Comments, err = r.commentsFor(ctx, rawID)
	if err != nil {
		return postrepo.Post{}, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]postrepo.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, author, created_at
		FROM posts
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]postrepo.Post, 0)
	for rows.Next() {
		var p postrepo.Post
		var rawID string
		if err := rows.Scan(&rawID, &p.Title, &p.Content, &p.Author, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ID = domain.PostID(rawID)
		p.CreatedAt = p.CreatedAt.UTC()
		p.Comments = []postrepo.Comment{}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		cs, err := r.commentsFor(ctx, string(out[i].ID))
		if err != nil {
			return nil, err
		}
		out[i].Comments = cs
	}
	return out, nil
}

func (r *Repo) AddComment(ctx context.Context, id domain.PostID, c postrepo.Comment) (postrepo.Post, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO post_comments (id, post_id, user_id, body)
		SELECT ?, p.id, ?, ?
		FROM posts p
		WHERE p.id = ?
	`, string(c.ID), userIDValue(c.UserID), c.Body, string(id))
	if err != nil {
		return postrepo.Post{}, err
	}
	if err := mapRowsAffected(res, postrepo.ErrNotFound); err != nil {
		return postrepo.Post{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) RemoveComment(ctx context.Context, id domain.PostID, commentID domain.CommentID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM post_comments
		WHERE id = ? AND post_id = ?
	`, string(commentID), string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.commentMissingReason(ctx, string(id))
	}
	return nil
}

// commentMissingReason distinguishes "post absent" from "comment absent".
func (r *Repo) commentMissingReason(ctx context.Context, postID string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)`, postID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return postrepo.ErrNotFound
	}
	return postrepo.ErrCommentNotFound
}

func (r *Repo) commentsFor(ctx context.Context, postID string) ([]postrepo.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, body
		FROM post_comments
		WHERE post_id = ?
		ORDER BY seq ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]postrepo.Comment, 0)
	for rows.Next() {
		var c postrepo.Comment
		var rawID string
		var userID sql.NullString
		if err := rows.Scan(&rawID, &userID, &c.Body); err != nil {
			return nil, err
		}
		c.ID = domain.CommentID(rawID)
		if userID.Valid {
			v := domain.UserID(userID.String)
			c.UserID = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func insertComment(ctx context.Context, tx *sql.Tx, postID string, c postrepo.Comment) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO post_comments (id, post_id, user_id, body)
		SELECT ?, p.id, ?, ?
		FROM posts p
		WHERE p.id = ?
	`, string(c.ID), userIDValue(c.UserID), c.Body, postID)
	if err != nil {
		return err
	}
	return mapRowsAffected(res, postrepo.ErrNotFound)
}

func userIDValue(id *domain.UserID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

func mapRowsAffected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite surfaces constraint failures by message text; the
	// driver error type is not exported in a matchable form.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
