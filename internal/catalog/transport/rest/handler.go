// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
	"github.com/openpantry/backend/internal/catalog/service"
	"github.com/openpantry/backend/pkg/web"
)

// genericErrorMessage is the only detail ever echoed to the caller on an
// internal fault; the specifics are logged at the boundary.
const genericErrorMessage = "An error occurred. Please try later."

type Handler struct {
	service  service.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Get("/search", h.Search)
		r.Post("/scan", h.Scan)
		r.Put("/", h.Update)
		r.Delete("/{name}", h.DeleteByName)
	})
}

// Scan runs the barcode ingestion pipeline for one request and maps each
// failure kind onto its transport status: malformed input is rejected with
// 422, soft no-result outcomes answer 204, a duplicate answers 409 and
// everything else is a 500 with a generic message.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var scanDto service.ScanDto
	if err := json.NewDecoder(r.Body).Decode(&scanDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, scanDto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received scan request", "has_barcode", scanDto.Barcode != "")
	created, err := h.service.Scan(r.Context(), scanDto)
	if err != nil {
		h.respondScanError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product ingested successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// respondScanError translates a pipeline failure into a transport status.
// Internal detail is logged here and never echoed to the caller.
func (h *Handler) respondScanError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	switch {
	case errors.Is(err, cerrors.ErrInvalidEncoding):
		mLogger.WarnContext(r.Context(), "Rejected malformed base64 payload", "error", err)
		web.RespondError(w, mLogger, http.StatusUnprocessableEntity, "Unable to decode the base64 payload")
	case errors.Is(err, cerrors.ErrUnsupportedImage):
		mLogger.WarnContext(r.Context(), "Rejected undecodable image payload", "error", err)
		web.RespondError(w, mLogger, http.StatusUnprocessableEntity, "Unable to read the image payload")
	case cerrors.Benign(err):
		// Expected no-result outcome, not an internal failure.
		mLogger.InfoContext(r.Context(), "Scan produced no result", "reason", err)
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, cerrors.ErrDuplicateProduct):
		mLogger.WarnContext(r.Context(), "Rejected duplicate product", "error", err)
		web.RespondError(w, mLogger, http.StatusConflict, "Can't create a duplicated product")
	default:
		mLogger.ErrorContext(r.Context(), "Scan pipeline failed", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
	}
}

// FindAll retrieves a list of stored products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	offset, ok := web.ParseValidateGte(r, w, mLogger, "offset", 0)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to find all products", "limit", limit, "offset", offset)
	list, err := h.service.FindAll(r.Context(), offset, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Search retrieves products whose name contains the given fragment.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	name := r.URL.Query().Get("name")
	if name == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "name url parameter is required")
		return
	}
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received search request", "name", name, "limit", limit)
	list, err := h.service.Search(r.Context(), name, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error searching products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to search products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Update rewrites quantity and category for the product matched by name.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var updateDto service.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&updateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, updateDto) {
		return
	}

	updated, err := h.service.Update(r.Context(), updateDto)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "Name", updateDto.CurrentName)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product %q not found", updateDto.CurrentName))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "Name", updateDto.CurrentName, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByName deletes a product by its name.
func (h *Handler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	name := chi.URLParam(r, "name")
	if name == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Product name is required")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "Name", name)
	if err := h.service.DeleteByName(r.Context(), name); err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "Name", name)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product %q not found", name))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "Name", name, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "Name", name)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateStruct validates a decoded request body, answering 400 with a
// field-level error map when the body fails validation.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, body any) bool {
	err := h.validate.Struct(body)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
	return false
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
