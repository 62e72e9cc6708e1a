package postrepo

import (
	"context"
	"time"

	"github.com/reelboard/movie-blog-api/internal/domain"
)

// Post is the persistence shape used by the post repository.
// It is not an HTTP DTO.
type Post struct {
	ID domain.PostID

	Title   string
	Content string
	Author  string

	CreatedAt time.Time

	// Comments are stored in insertion order. List/Get return them in that
	// order; no backend applies a sort.
	Comments []Comment
}

// Comment is the persistence shape of one comment. UserID is nil for
// anonymous comments.
type Comment struct {
	ID     domain.CommentID
	UserID *domain.UserID
	Body   string
}

// Repository provides access to persisted posts.
//
// Comment mutation is a repository primitive rather than a fetch-mutate-save
// cycle: AddComment and RemoveComment must each be atomic with respect to
// concurrent comment writers on the same post, so a second writer can never
// silently overwrite the first's effect.
type Repository interface {
	Create(ctx context.Context, p Post) error

	// Update rewrites the post's own fields (title, content, author). It never
	// touches the comment sequence, so it cannot race with comment mutation.
	Update(ctx context.Context, p Post) error

	// Delete removes the post and, with it, every embedded comment.
	Delete(ctx context.Context, id domain.PostID) error

	GetByID(ctx context.Context, id domain.PostID) (Post, error)

	// List returns every post in insertion order with nested comments.
	List(ctx context.Context) ([]Post, error)

	// AddComment atomically appends c to the post's comment sequence and
	// returns the updated post.
	AddComment(ctx context.Context, id domain.PostID, c Comment) (Post, error)

	// RemoveComment atomically removes exactly the comment with the given ID.
	// It returns ErrCommentNotFound when the post exists but the comment does not.
	RemoveComment(ctx context.Context, id domain.PostID, commentID domain.CommentID) error
}
