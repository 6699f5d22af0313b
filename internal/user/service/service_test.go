package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usererrors "github.com/openpantry/backend/internal/user/errors"
	"github.com/openpantry/backend/internal/user/store"
)

// mockUserStore is a mock implementation of the UserStore interface
type mockUserStore struct {
	user  *store.User
	error error
}

func (m *mockUserStore) FindByID(_ context.Context, _ uuid.UUID) (*store.User, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.user, nil
}

func (m *mockUserStore) Upsert(_ context.Context, user store.User) (*store.User, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &user, nil
}

func Test_UserService_FindByID(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name        string
		mockStore   *mockUserStore
		expected    *UserDto
		expectError error
	}{
		{
			name:      "Success - profile found",
			mockStore: &mockUserStore{user: &store.User{ID: mockID, Username: "alex"}},
			expected:  &UserDto{ID: mockID.String(), Username: "alex"},
		},
		{
			name:        "Error - profile not found",
			mockStore:   &mockUserStore{error: usererrors.ErrUserNotFound},
			expectError: usererrors.ErrUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := NewService(tc.mockStore)

			// when
			dto, err := svc.FindByID(context.Background(), mockID)

			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, dto)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dto)
		})
	}
}

func Test_UserService_Save(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")

	t.Run("Success - profile saved", func(t *testing.T) {
		// given
		svc := NewService(&mockUserStore{})

		// when
		dto, err := svc.Save(context.Background(), mockID, ProfileDto{Username: "alex"})

		// then
		require.NoError(t, err)
		assert.Equal(t, mockID.String(), dto.ID)
		assert.Equal(t, "alex", dto.Username)
	})

	t.Run("Error - username taken", func(t *testing.T) {
		// given
		svc := NewService(&mockUserStore{error: usererrors.ErrDuplicateUsername})

		// when
		dto, err := svc.Save(context.Background(), mockID, ProfileDto{Username: "alex"})

		// then
		assert.ErrorIs(t, err, usererrors.ErrDuplicateUsername)
		assert.Nil(t, dto)
	})
}
