package httpapi

import (
	"time"

	"github.com/reelboard/movie-blog-api/internal/domain"
)

// Wire shapes follow the contract the SPA already consumes: Mongo-era field
// names (_id, author_information, creationAdded) are preserved verbatim.

// PostProjection is the public view of a post, comments included.
type PostProjection struct {
	ID       string              `json:"_id"`
	Title    string              `json:"title"`
	Content  string              `json:"content"`
	Author   string              `json:"author_information"`
	Created  time.Time           `json:"creationAdded"`
	Comments []CommentProjection `json:"comments"`
}

// CommentProjection is a comment as embedded in a post. UserID is omitted for
// anonymous comments.
type CommentProjection struct {
	ID     string `json:"_id"`
	UserID string `json:"userId,omitempty"`
	Body   string `json:"comment"`
}

// CommentOnlyProjection is the reduced shape returned by the comment listing.
type CommentOnlyProjection struct {
	ID   string `json:"_id"`
	Body string `json:"comment"`
}

// UserProjection is the public view of a user account; the password hash never
// leaves the server.
type UserProjection struct {
	ID      string `json:"_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func postProjectionFromDomain(p domain.Post) PostProjection {
	out := PostProjection{
		ID:       string(p.ID),
		Title:    p.Title,
		Content:  p.Content,
		Author:   p.Author,
		Created:  p.CreatedAt,
		Comments: make([]CommentProjection, 0, len(p.Comments)),
	}
	for _, c := range p.Comments {
		out.Comments = append(out.Comments, commentProjectionFromDomain(c))
	}
	return out
}

func commentProjectionFromDomain(c domain.Comment) CommentProjection {
	out := CommentProjection{
		ID:   string(c.ID),
		Body: c.Body,
	}
	if c.UserID != nil {
		out.UserID = string(*c.UserID)
	}
	return out
}

func userProjectionFromDomain(u domain.User) UserProjection {
	return UserProjection{
		ID:      string(u.ID),
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
