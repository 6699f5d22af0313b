package service

import (
	"context"
	"errors"
	"fmt"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
	"github.com/openpantry/backend/internal/catalog/store"
)

// DuplicateGuard checks the store for an existing record equivalent to a
// candidate before it is inserted. The identifying key is the barcode when
// present, the name otherwise.
type DuplicateGuard struct {
	repository store.ProductStore
}

// NewDuplicateGuard creates a guard over the given store handle.
func NewDuplicateGuard(repository store.ProductStore) *DuplicateGuard {
	return &DuplicateGuard{repository: repository}
}

// Check returns ErrDuplicateProduct when an equivalent record already exists.
// When the store cannot answer the question, it fails with ErrStorageFailure:
// a write must never proceed on an inconclusive duplicate check.
func (g *DuplicateGuard) Check(ctx context.Context, candidate *store.Product) error {
	var err error
	if candidate.Barcode != nil && *candidate.Barcode != "" {
		_, err = g.repository.FindByBarcode(ctx, *candidate.Barcode)
	} else {
		_, err = g.repository.FindByName(ctx, candidate.Name)
	}

	switch {
	case err == nil:
		return cerrors.ErrDuplicateProduct
	case errors.Is(err, cerrors.ErrProductNotFound):
		return nil
	case errors.Is(err, cerrors.ErrStorageFailure):
		return err
	default:
		return fmt.Errorf("%w: duplicate check failed: %v", cerrors.ErrStorageFailure, err)
	}
}
