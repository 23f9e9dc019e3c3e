package services

import "errors"

var (
	// ErrDuplicateIdentity means the username or the email is already registered.
	ErrDuplicateIdentity = errors.New("username or email already taken")

	// ErrUserNotFound means a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
