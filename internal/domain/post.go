package domain

import "time"

// Comment is one entry in a post's comment sequence.
//
// UserID is nil for anonymous comments; Body is required (non-empty after
// trimming, enforced at the application layer).
type Comment struct {
	ID     CommentID
	UserID *UserID
	Body   string
}

// Post is the domain representation of a post and its embedded comments.
//
// Comments are owned exclusively by the post (composition, not reference):
// they are created and destroyed only through post mutation, and deleting the
// post discards them. Insertion order of Comments is significant and preserved
// by every repository backend.
type Post struct {
	ID      PostID
	Title   string
	Content string
	// Author is the owning user's identifier as supplied by the caller at
	// creation time (wire name "author_information"). It is immutable in the
	// intended design, though UpdatePost may rewrite it for compatibility with
	// the observed API.
	Author string

	CreatedAt time.Time

	Comments []Comment
}
