package postrepo

import "errors"

var (
	// ErrNotFound indicates the requested post does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates the post exists but the comment does not.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrAlreadyExists indicates a post already exists with the provided ID.
	ErrAlreadyExists = errors.New("post already exists")
)
