// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is the canonical, persisted representation of a product,
// independent of any external catalog's schema. Barcode is unique across the
// collection when present.
type Product struct {
	ID        uuid.UUID
	Name      string
	Image     *string
	Quantity  *int64
	Category  []string
	Barcode   *string
	CreatedAt time.Time
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns stored products with pagination.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context, offset, limit int32) ([]Product, error)

	// FindByBarcode retrieves the product carrying the given barcode.
	// Returns ErrProductNotFound if there is none.
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindByName retrieves the product with the given name.
	// Returns ErrProductNotFound if there is none.
	FindByName(ctx context.Context, name string) (*Product, error)

	// SearchByName returns products whose name contains the given fragment,
	// case-insensitively, up to limit results.
	SearchByName(ctx context.Context, fragment string, limit int32) ([]Product, error)

	// Create persists a new product and returns the stored record.
	// Returns ErrDuplicateProduct when the barcode is already taken.
	Create(ctx context.Context, product Product) (*Product, error)

	// UpdateByName rewrites quantity and category for the product with the
	// given name. Returns ErrProductNotFound if there is none.
	UpdateByName(ctx context.Context, name string, quantity *int64, category []string) (*Product, error)

	// DeleteByName removes the product with the given name.
	// Returns ErrProductNotFound if there is none.
	DeleteByName(ctx context.Context, name string) error
}
