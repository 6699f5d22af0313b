// Package rest provides HTTP handlers for user profile operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	usererrors "github.com/openpantry/backend/internal/user/errors"
	"github.com/openpantry/backend/internal/user/service"
	"github.com/openpantry/backend/pkg/web"
)

type Handler struct {
	service  service.UserService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the user profile API.
func NewHandler(service service.UserService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "user_rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the user profile service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/users/me", func(r chi.Router) {
		r.Get("/", h.Me)
		r.Put("/", h.Save)
	})
}

// Me returns the profile of the authenticated subject.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	found, err := h.service.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) {
			mLogger.WarnContext(r.Context(), "User profile not found", "ID", userID)
			web.RespondError(w, mLogger, http.StatusNotFound, "No profile found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving user profile", "ID", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Save creates or rewrites the profile of the authenticated subject.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	var profile service.ProfileDto
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(profile); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.service.Save(r.Context(), userID, profile)
	if err != nil {
		if errors.Is(err, usererrors.ErrDuplicateUsername) {
			mLogger.WarnContext(r.Context(), "Username already taken", "Username", profile.Username)
			web.RespondError(w, mLogger, http.StatusConflict, "Username already taken")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error saving user profile", "ID", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	mLogger.InfoContext(r.Context(), "User profile saved", "ID", saved.ID, "Username", saved.Username)
	web.RespondJSON(w, mLogger, http.StatusOK, saved)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
