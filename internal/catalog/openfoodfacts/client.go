// Package openfoodfacts is the lookup client for the public food-product
// catalog. A lookup is a single GET with no retry: an upstream miss is an
// expected outcome, not an exceptional one.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker/v2"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
	"github.com/openpantry/backend/pkg/config"
)

// DefaultBaseURL is the public catalog endpoint; a product lookup is
// <base>/<barcode>.
const DefaultBaseURL = "https://world.openfoodfacts.org/api/v0/product"

// maxResponseBytes bounds how much of the upstream body is read.
const maxResponseBytes = 1 << 20

// Client performs catalog lookups over HTTP. Calls go through a circuit
// breaker so that a flapping upstream fails fast instead of tying up request
// handlers; only connectivity faults trip it, misses do not.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Record]
	logger     *slog.Logger
}

// NewClient creates a catalog client from the given configuration.
func NewClient(cfg config.CatalogConfig, logger *slog.Logger) *Client {
	st := gobreaker.Settings{
		Name: "openfoodfacts",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.Breaker.ConsecutiveFailures
		},
		Timeout: cfg.Breaker.OpenTimeout,
		IsSuccessful: func(err error) bool {
			// A miss or a malformed body is an answer from the upstream, not
			// a connectivity fault.
			return err == nil || !errors.Is(err, cerrors.ErrCatalogUnreachable)
		},
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*Record](st),
		logger:     logger.With("component", "openfoodfacts"),
	}
}

// Lookup fetches the catalog record for the given barcode.
// Returns ErrCatalogUnreachable on connectivity faults (including an open
// breaker), ErrCatalogMiss when the catalog has no such product, and
// ErrCatalogSchemaMismatch when the response matches neither schema variant.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Record, error) {
	record, err := c.breaker.Execute(func() (*Record, error) {
		return c.lookup(ctx, barcode)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.WarnContext(ctx, "Catalog breaker open, failing fast", "barcode", barcode)
			return nil, fmt.Errorf("%w: %v", cerrors.ErrCatalogUnreachable, err)
		}
		return nil, err
	}
	return record, nil
}

func (c *Client) lookup(ctx context.Context, barcode string) (*Record, error) {
	lookupURL := c.baseURL + "/" + url.PathEscape(barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerrors.ErrCatalogUnreachable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerrors.ErrCatalogUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream returned %d", cerrors.ErrCatalogMiss, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerrors.ErrCatalogUnreachable, err)
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		if errors.Is(err, cerrors.ErrCatalogMiss) || errors.Is(err, cerrors.ErrCatalogSchemaMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", cerrors.ErrCatalogSchemaMismatch, err)
	}
	return &record, nil
}
