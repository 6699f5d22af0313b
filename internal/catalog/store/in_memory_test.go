package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

func seed(t *testing.T, s ProductStore, name, barcode string) *Product {
	t.Helper()
	product := Product{Name: name}
	if barcode != "" {
		product.Barcode = &barcode
	}
	created, err := s.Create(context.Background(), product)
	require.NoError(t, err)
	return created
}

func Test_InMemory_Create_DuplicateBarcode(t *testing.T) {
	// given
	s := NewInMemoryStore()
	seed(t, s, "Nutella", "3017620422003")
	barcode := "3017620422003"

	// when
	_, err := s.Create(context.Background(), Product{Name: "Nutella bis", Barcode: &barcode})

	// then
	assert.ErrorIs(t, err, cerrors.ErrDuplicateProduct)
}

func Test_InMemory_Create_BarcodelessProductsDoNotCollide(t *testing.T) {
	// given
	s := NewInMemoryStore()
	first := seed(t, s, "Homemade jam", "")

	// when
	second, err := s.Create(context.Background(), Product{Name: "Homemade bread"})

	// then
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func Test_InMemory_FindByBarcode(t *testing.T) {
	// given
	s := NewInMemoryStore()
	created := seed(t, s, "Nutella", "3017620422003")

	// when
	found, err := s.FindByBarcode(context.Background(), "3017620422003")

	// then
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// when
	_, err = s.FindByBarcode(context.Background(), "0000000000000")

	// then
	assert.ErrorIs(t, err, cerrors.ErrProductNotFound)
}

func Test_InMemory_FindAll_Pagination(t *testing.T) {
	// given
	s := NewInMemoryStore()
	seed(t, s, "Nutella", "3017620422003")
	seed(t, s, "Ovomaltine", "7612100055122")
	seed(t, s, "Homemade jam", "")

	// when
	page, err := s.FindAll(context.Background(), 0, 2)

	// then
	require.NoError(t, err)
	assert.Len(t, page, 2)

	// when
	rest, err := s.FindAll(context.Background(), 2, 2)

	// then
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	// when
	empty, err := s.FindAll(context.Background(), 10, 2)

	// then
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func Test_InMemory_SearchByName(t *testing.T) {
	// given
	s := NewInMemoryStore()
	seed(t, s, "Nutella", "3017620422003")
	seed(t, s, "Ovomaltine", "7612100055122")

	// when: the match is case-insensitive
	matches, err := s.SearchByName(context.Background(), "NUT", 10)

	// then
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Nutella", matches[0].Name)
}

func Test_InMemory_UpdateByName(t *testing.T) {
	// given
	s := NewInMemoryStore()
	seed(t, s, "Nutella", "3017620422003")
	quantity := int64(3)

	// when
	updated, err := s.UpdateByName(context.Background(), "Nutella", &quantity, []string{"spreads"})

	// then
	require.NoError(t, err)
	require.NotNil(t, updated.Quantity)
	assert.Equal(t, int64(3), *updated.Quantity)
	assert.Equal(t, []string{"spreads"}, updated.Category)

	// when
	_, err = s.UpdateByName(context.Background(), "Ghost", &quantity, nil)

	// then
	assert.ErrorIs(t, err, cerrors.ErrProductNotFound)
}

func Test_InMemory_DeleteByName(t *testing.T) {
	// given
	s := NewInMemoryStore()
	seed(t, s, "Nutella", "3017620422003")

	// when
	err := s.DeleteByName(context.Background(), "Nutella")

	// then
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteByName(context.Background(), "Nutella"), cerrors.ErrProductNotFound)
}
