// Package service provides the implementation of user profile business logic.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openpantry/backend/internal/user/store"
)

// UserService defines the methods for managing user profiles.
type UserService interface {
	// FindByID retrieves the profile of the given subject.
	// Returns ErrUserNotFound if no profile exists.
	FindByID(ctx context.Context, id uuid.UUID) (*UserDto, error)

	// Save creates or rewrites the profile of the given subject.
	// Returns ErrDuplicateUsername when the username is already taken.
	Save(ctx context.Context, id uuid.UUID, profile ProfileDto) (*UserDto, error)
}

// ProfileDto represents the caller-editable part of a profile.
type ProfileDto struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
}

// UserDto represents the data transfer object for a user profile.
type UserDto struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Service implements UserService backed by a UserStore.
type Service struct {
	repository store.UserStore
}

// NewService creates a new instance of UserService with the provided repository.
func NewService(repository store.UserStore) *Service {
	return &Service{repository: repository}
}

// FindByID retrieves a profile and returns it as a UserDto.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*UserDto, error) {
	user, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile %s: %w", id, err)
	}
	return toDto(user), nil
}

// Save creates or rewrites a profile and returns it as a UserDto.
func (s *Service) Save(ctx context.Context, id uuid.UUID, profile ProfileDto) (*UserDto, error) {
	user, err := s.repository.Upsert(ctx, store.User{ID: id, Username: profile.Username})
	if err != nil {
		return nil, fmt.Errorf("failed to save user profile %s: %w", id, err)
	}
	return toDto(user), nil
}

// toDto converts a store.User to a UserDto.
func toDto(user *store.User) *UserDto {
	return &UserDto{
		ID:       user.ID.String(),
		Username: user.Username,
	}
}
