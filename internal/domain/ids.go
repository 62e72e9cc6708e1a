package domain

// SubjectID is the authenticated subject carried inside a verified access token.
// For first-party tokens it equals the owning user's UserID, but the domain
// treats it as an opaque identifier: its format is controlled by the token issuer.
type SubjectID string

// UserID is an internal identifier for a user account.
type UserID string

// PostID is an internal identifier for a post record.
type PostID string

// CommentID is an internal identifier for a comment within a post.
type CommentID string
