// Package store provides an interface for user profile storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the service's profile record for an authenticated subject.
// Credentials are owned by the identity provider, never stored here.
type User struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}

// UserStore is an interface for user profile storage operations.
type UserStore interface {
	// FindByID retrieves the profile of the given subject.
	// Returns ErrUserNotFound if no profile exists.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Upsert creates or rewrites the profile of the given subject.
	// Returns ErrDuplicateUsername when the username is already taken.
	Upsert(ctx context.Context, user User) (*User, error)
}
