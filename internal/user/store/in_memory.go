package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	usererrors "github.com/openpantry/backend/internal/user/errors"
)

// inMemory implements UserStore using an in-memory map.
type inMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryStore creates a new instance of UserStore.
func NewInMemoryStore() UserStore {
	return &inMemory{users: make(map[uuid.UUID]User)}
}

func (s *inMemory) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, usererrors.ErrUserNotFound
	}
	return &user, nil
}

func (s *inMemory) Upsert(_ context.Context, user User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.users {
		if id != user.ID && existing.Username == user.Username {
			return nil, usererrors.ErrDuplicateUsername
		}
	}

	if existing, ok := s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = user
	return &user, nil
}
