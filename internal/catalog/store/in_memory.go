package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

// inMemory implements ProductStore using an in-memory map. It enforces the
// same barcode uniqueness the Postgres partial index provides, so tests
// exercise the identical conflict behavior.
type inMemory struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemoryStore creates a new instance of ProductStore.
func NewInMemoryStore() ProductStore {
	return &inMemory{products: make(map[uuid.UUID]Product)}
}

func (s *inMemory) FindAll(_ context.Context, offset, limit int32) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.sorted()
	if int(offset) >= len(list) {
		return []Product{}, nil
	}
	list = list[offset:]
	if int(limit) < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (s *inMemory) FindByBarcode(_ context.Context, barcode string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, cerrors.ErrProductNotFound
}

func (s *inMemory) FindByName(_ context.Context, name string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, cerrors.ErrProductNotFound
}

func (s *inMemory) SearchByName(_ context.Context, fragment string, limit int32) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(fragment)
	matches := make([]Product, 0)
	for _, p := range s.sorted() {
		if int32(len(matches)) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *inMemory) Create(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Barcode != nil {
		for _, p := range s.products {
			if p.Barcode != nil && *p.Barcode == *product.Barcode {
				return nil, cerrors.ErrDuplicateProduct
			}
		}
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	s.products[product.ID] = product
	return &product, nil
}

func (s *inMemory) UpdateByName(_ context.Context, name string, quantity *int64, category []string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.products {
		if p.Name == name {
			p.Quantity = quantity
			p.Category = category
			s.products[id] = p
			return &p, nil
		}
	}
	return nil, cerrors.ErrProductNotFound
}

func (s *inMemory) DeleteByName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.products {
		if p.Name == name {
			delete(s.products, id)
			return nil
		}
	}
	return cerrors.ErrProductNotFound
}

func (s *inMemory) sorted() []Product {
	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}
