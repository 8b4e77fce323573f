package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already taken")

	// ErrTaskNotFound indicates that the task was not found
	ErrTaskNotFound = errors.New("task not found")
)
