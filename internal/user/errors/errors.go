// Package errors provides custom error types for user profile operations.
package errors

import "errors"

var (
	ErrUserNotFound      = errors.New("user profile not found")
	ErrDuplicateUsername = errors.New("username already taken")
)
