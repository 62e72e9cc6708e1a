package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
	clockport "github.com/reelboard/movie-blog-api/internal/ports/out/clock"
	"github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
)

type Service struct {
	repo postrepo.Repository
	clk  clockport.Clock

	newPostID    func() domain.PostID
	newCommentID func() domain.CommentID
}

func NewService(repo postrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newPostID: func() domain.PostID {
			return domain.PostID(uuid.NewString())
		},
		newCommentID: func() domain.CommentID {
			return domain.CommentID(uuid.NewString())
		},
	}
}

// SetIDGeneratorsForTest overrides ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetIDGeneratorsForTest(post func() domain.PostID, comment func() domain.CommentID) {
	if post != nil {
		s.newPostID = post
	}
	if comment != nil {
		s.newCommentID = comment
	}
}

// canMutate is the single ownership rule applied to post mutation: the post's
// owner and administrators may update or delete it, nobody else.
func canMutate(claims tokens.Claims, p postrepo.Post) bool {
	return string(claims.Subject) == p.Author || claims.IsAdmin
}

// CreatePost creates a post owned by the caller-supplied author label.
// Any authenticated user, admins included, may create posts; the claims are
// only the authentication gate, not an input.
func (s *Service) CreatePost(ctx context.Context, _ tokens.Claims, in CreatePostInput) (domain.Post, error) {
	title := domain.TrimText(in.Title)
	content := domain.TrimText(in.Content)
	author := domain.TrimText(in.Author)

	if title == "" {
		return domain.Post{}, requiredFieldError("title", "Title is Required")
	}
	if content == "" {
		return domain.Post{}, requiredFieldError("content", "Content is Required")
	}
	if author == "" {
		return domain.Post{}, requiredFieldError("author_information", "Author Information is Required")
	}

	p := postrepo.Post{
		ID:        s.newPostID(),
		Title:     title,
		Content:   content,
		Author:    author,
		CreatedAt: s.clk.Now().UTC(),
		Comments:  []postrepo.Comment{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, postrepo.ErrAlreadyExists) {
			// UUID collision; effectively unreachable.
			return domain.Post{}, &Error{Status: 409, Code: "POST_ID_CONFLICT", Message: "post id conflict"}
		}
		return domain.Post{}, err
	}
	return toDomain(p), nil
}

// UpdatePost applies a partial update after the owner-or-admin check.
// Required document fields are re-validated: a specified field must be a
// non-empty value, never null.
func (s *Service) UpdatePost(ctx context.Context, claims tokens.Claims, id domain.PostID, in UpdatePostInput) (domain.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return domain.Post{}, errPostNotFound()
		}
		return domain.Post{}, err
	}
	if !canMutate(claims, p) {
		return domain.Post{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "Unauthorized to update this post"}
	}

	apply := func(dst *string, o Optional[string], field, message string) error {
		if !o.IsSpecified() {
			return nil
		}
		if o.IsNull() {
			return requiredFieldError(field, message)
		}
		v := domain.TrimText(o.Value())
		if v == "" {
			return requiredFieldError(field, message)
		}
		*dst = v
		return nil
	}

	if err := apply(&p.Title, in.Title, "title", "Title is Required"); err != nil {
		return domain.Post{}, err
	}
	if err := apply(&p.Content, in.Content, "content", "Content is Required"); err != nil {
		return domain.Post{}, err
	}
	if err := apply(&p.Author, in.Author, "author_information", "Author Information is Required"); err != nil {
		return domain.Post{}, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return domain.Post{}, errPostNotFound()
		}
		return domain.Post{}, err
	}
	return toDomain(p), nil
}

// DeletePost removes the post and all of its comments after the owner-or-admin check.
func (s *Service) DeletePost(ctx context.Context, claims tokens.Claims, id domain.PostID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return errPostNotFound()
		}
		return err
	}
	if !canMutate(claims, p) {
		return &Error{Status: 403, Code: "FORBIDDEN", Message: "Unauthorized to delete this post"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return errPostNotFound()
		}
		return err
	}
	return nil
}

// ListPosts returns every post with nested comments in insertion order.
// No server-side sort is applied; "most recent first" is a presentation concern.
func (s *Service) ListPosts(ctx context.Context) ([]domain.Post, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Post, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDomain(p))
	}
	return out, nil
}

func (s *Service) GetPost(ctx context.Context, id domain.PostID) (domain.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return domain.Post{}, errPostNotFound()
		}
		return domain.Post{}, err
	}
	return toDomain(p), nil
}

// AddComment appends a comment to the post's sequence. userID is nil for
// anonymous callers. The append is a store-level atomic push, so concurrent
// commenters cannot lose each other's writes.
func (s *Service) AddComment(ctx context.Context, userID *domain.UserID, id domain.PostID, body string) (domain.Post, error) {
	body = domain.TrimText(body)
	if body == "" {
		return domain.Post{}, &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "Comment is required.",
			Details: map[string]any{"comment": "must be non-empty"},
		}
	}

	c := postrepo.Comment{
		ID:     s.newCommentID(),
		UserID: cloneUserIDPtr(userID),
		Body:   body,
	}
	p, err := s.repo.AddComment(ctx, id, c)
	if err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return domain.Post{}, errPostNotFound()
		}
		return domain.Post{}, err
	}
	return toDomain(p), nil
}

// ListComments returns the post's comment sequence in insertion order.
func (s *Service) ListComments(ctx context.Context, id domain.PostID) ([]domain.Comment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return nil, errPostNotFound()
		}
		return nil, err
	}
	out := make([]domain.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		out = append(out, toDomainComment(c))
	}
	return out, nil
}

// DeleteComment removes exactly one comment. Admin-only enforcement lives at
// the route layer; the service distinguishes post-absent from comment-absent.
func (s *Service) DeleteComment(ctx context.Context, id domain.PostID, commentID domain.CommentID) error {
	if err := s.repo.RemoveComment(ctx, id, commentID); err != nil {
		switch {
		case errors.Is(err, postrepo.ErrNotFound):
			return errPostNotFound()
		case errors.Is(err, postrepo.ErrCommentNotFound):
			return &Error{Status: 404, Code: "COMMENT_NOT_FOUND", Message: "Comment not found"}
		}
		return err
	}
	return nil
}

func errPostNotFound() *Error {
	return &Error{Status: 404, Code: "POST_NOT_FOUND", Message: "Post not found"}
}

func requiredFieldError(field, message string) *Error {
	return &Error{
		Status:  400,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: map[string]any{field: "is required"},
	}
}

func toDomain(p postrepo.Post) domain.Post {
	out := domain.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		Comments:  make([]domain.Comment, 0, len(p.Comments)),
	}
	for _, c := range p.Comments {
		out.Comments = append(out.Comments, toDomainComment(c))
	}
	return out
}

func toDomainComment(c postrepo.Comment) domain.Comment {
	return domain.Comment{
		ID:     c.ID,
		UserID: cloneUserIDPtr(c.UserID),
		Body:   c.Body,
	}
}

func cloneUserIDPtr(p *domain.UserID) *domain.UserID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
