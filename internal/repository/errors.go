package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrPostNotFound is returned when a feed post is not found
	ErrPostNotFound = errors.New("post not found")
)
