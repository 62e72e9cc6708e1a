package userrepo

import "errors"

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a user already exists with the provided email.
	ErrEmailTaken = errors.New("user email already taken")

	// ErrAlreadyExists indicates a user already exists with the provided ID.
	ErrAlreadyExists = errors.New("user already exists")
)
