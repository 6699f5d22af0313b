package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	usererrors "github.com/openpantry/backend/internal/user/errors"
	"github.com/openpantry/backend/internal/user/service"
	"github.com/openpantry/backend/pkg/web"
)

// mockUserService is a mock implementation of the UserService interface
type mockUserService struct {
	user  *service.UserDto
	error error
}

func (m *mockUserService) FindByID(_ context.Context, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.user, nil
}

func (m *mockUserService) Save(_ context.Context, _ uuid.UUID, _ service.ProfileDto) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.user, nil
}

func newRequest(method, target, body string, userID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		ctx := context.WithValue(req.Context(), web.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func Test_UserHandler_Me(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockUserService
		userID       string
		expectedCode int
	}{
		{
			name:         "Success - profile found",
			mockService:  mockUserService{user: &service.UserDto{ID: mockID.String(), Username: "alex"}},
			userID:       mockID.String(),
			expectedCode: http.StatusOK,
		},
		{
			name:         "Error - no subject in context",
			mockService:  mockUserService{},
			userID:       "",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Error - profile not found",
			mockService:  mockUserService{error: usererrors.ErrUserNotFound},
			userID:       mockID.String(),
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Error - service error",
			mockService:  mockUserService{error: errors.New("service unavailable")},
			userID:       mockID.String(),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
			api := NewHandler(&tc.mockService, logger)
			req := newRequest(http.MethodGet, "/api/v1/users/me", "", tc.userID)
			rr := httptest.NewRecorder()

			// when
			api.Me(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
		})
	}
}

func Test_UserHandler_Save(t *testing.T) {
	mockID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	testCases := []struct {
		name         string
		mockService  mockUserService
		body         string
		expectedCode int
	}{
		{
			name:         "Success - profile saved",
			mockService:  mockUserService{user: &service.UserDto{ID: mockID.String(), Username: "alex"}},
			body:         `{"username":"alex"}`,
			expectedCode: http.StatusOK,
		},
		{
			name:         "Error - malformed JSON body",
			mockService:  mockUserService{},
			body:         `{{{`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - username too short",
			mockService:  mockUserService{},
			body:         `{"username":"ab"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - username taken",
			mockService:  mockUserService{error: usererrors.ErrDuplicateUsername},
			body:         `{"username":"alex"}`,
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Error - service error",
			mockService:  mockUserService{error: errors.New("service unavailable")},
			body:         `{"username":"alex"}`,
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
			api := NewHandler(&tc.mockService, logger)
			req := newRequest(http.MethodPut, "/api/v1/users/me", tc.body, mockID.String())
			rr := httptest.NewRecorder()

			// when
			api.Save(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
		})
	}
}
