// Package service provides the implementation of product-related business logic,
// including the scan-and-ingest pipeline.
package service

import (
	"context"
	"fmt"

	"github.com/openpantry/backend/internal/catalog/openfoodfacts"
	"github.com/openpantry/backend/internal/catalog/store"
)

// BarcodeExtractor yields the barcode encoded in a base64 image payload.
type BarcodeExtractor interface {
	// FromBase64 decodes the payload and scans the image for a symbol.
	FromBase64(payload string) (string, error)
}

// CatalogLookup resolves a barcode against the external product catalog.
type CatalogLookup interface {
	// Lookup fetches the external record for the given barcode.
	Lookup(ctx context.Context, barcode string) (*openfoodfacts.Record, error)
}

// CatalogService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type CatalogService interface {
	// Scan resolves a barcode (scanned from an image or given literally),
	// enriches it from the external catalog and persists the result.
	// Fails with one of the pipeline error kinds; never writes on failure.
	Scan(ctx context.Context, scan ScanDto) (*ProductDto, error)

	// FindAll returns stored products with pagination.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context, offset, limit int32) ([]ProductDto, error)

	// Search returns products whose name contains the given fragment.
	Search(ctx context.Context, fragment string, limit int32) ([]ProductDto, error)

	// Update rewrites quantity and category for the product matched by name.
	// Returns ErrProductNotFound if no product carries the given name.
	Update(ctx context.Context, update ProductUpdateDto) (*ProductDto, error)

	// DeleteByName removes a product by its name.
	// Returns ErrProductNotFound if no product carries the given name.
	DeleteByName(ctx context.Context, name string) error
}

// ScanDto is the ingestion request: either a literal barcode or a
// base64-encoded image containing one, never both.
type ScanDto struct {
	Barcode string `json:"barcode" validate:"required_without=Image,excluded_with=Image,omitempty,max=64"`
	Image   string `json:"image"   validate:"required_without=Barcode"`
}

// ProductUpdateDto is the explicit update path: the product is matched by its
// current name and its quantity and category are rewritten.
type ProductUpdateDto struct {
	CurrentName   string   `json:"current_name"   validate:"required,max=200"`
	NewQuantity   *int64   `json:"new_quantity"   validate:"omitempty,gte=0"`
	NewCategories []string `json:"new_categories" validate:"omitempty,dive,required"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Image    *string  `json:"image"`
	Quantity *int64   `json:"quantity"`
	Category []string `json:"category"`
	Barcode  *string  `json:"barcode"`
}

// Service implements CatalogService. The scan pipeline is strictly linear:
// decode, lookup, normalize, dedup-check, persist. The only externally
// visible side effect is the single insert after the duplicate check passes.
type Service struct {
	extractor  BarcodeExtractor
	lookup     CatalogLookup
	guard      *DuplicateGuard
	repository store.ProductStore
}

// NewService creates a new instance of CatalogService with the provided collaborators.
func NewService(extractor BarcodeExtractor, lookup CatalogLookup, repository store.ProductStore) *Service {
	return &Service{
		extractor:  extractor,
		lookup:     lookup,
		guard:      NewDuplicateGuard(repository),
		repository: repository,
	}
}

// Scan runs the ingestion pipeline for one request. Each stage returns a
// tagged failure kind; the first failure is propagated unchanged and no
// partial state is left behind since nothing is written before the final stage.
func (s *Service) Scan(ctx context.Context, scan ScanDto) (*ProductDto, error) {
	barcode := scan.Barcode
	if barcode == "" {
		decoded, err := s.extractor.FromBase64(scan.Image)
		if err != nil {
			return nil, err
		}
		barcode = decoded
	}

	record, err := s.lookup.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}

	candidate := Normalize(record)

	if err := s.guard.Check(ctx, &candidate); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}
	return toDto(created), nil
}

// FindAll retrieves a list of stored products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context, offset, limit int32) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// Search retrieves products whose name contains the fragment.
func (s *Service) Search(ctx context.Context, fragment string, limit int32) ([]ProductDto, error) {
	products, err := s.repository.SearchByName(ctx, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return toDtos(products), nil
}

// Update rewrites quantity and category for the product matched by name.
func (s *Service) Update(ctx context.Context, update ProductUpdateDto) (*ProductDto, error) {
	updated, err := s.repository.UpdateByName(ctx, update.CurrentName, update.NewQuantity, update.NewCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %q: %w", update.CurrentName, err)
	}
	return toDto(updated), nil
}

// DeleteByName removes a product by its name.
func (s *Service) DeleteByName(ctx context.Context, name string) error {
	return s.repository.DeleteByName(ctx, name)
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:       product.ID.String(),
		Name:     product.Name,
		Image:    product.Image,
		Quantity: product.Quantity,
		Category: product.Category,
		Barcode:  product.Barcode,
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i, item := range products {
		dtos[i] = *toDto(&item)
	}
	return dtos
}
