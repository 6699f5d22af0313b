package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpantry/backend/internal/catalog/openfoodfacts"
)

func Test_Normalize(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		// given
		record := &openfoodfacts.Record{
			Code:    "3017620422003",
			Product: openfoodfacts.RecordDetail{Name: "Nutella", ImageURL: "http://x/img.jpg"},
		}

		// when
		product := Normalize(record)

		// then
		assert.Equal(t, "Nutella", product.Name)
		require.NotNil(t, product.Barcode)
		assert.Equal(t, "3017620422003", *product.Barcode)
		require.NotNil(t, product.Image)
		assert.Equal(t, "http://x/img.jpg", *product.Image)
		assert.Nil(t, product.Quantity)
		assert.Nil(t, product.Category)
	})

	t.Run("missing image stays absent", func(t *testing.T) {
		// given
		record := &openfoodfacts.Record{
			Code:    "3017620422003",
			Product: openfoodfacts.RecordDetail{Name: "Nutella"},
		}

		// when
		product := Normalize(record)

		// then
		assert.Nil(t, product.Image)
	})

	t.Run("missing code leaves barcode absent", func(t *testing.T) {
		// given
		record := &openfoodfacts.Record{
			Product: openfoodfacts.RecordDetail{Name: "Nutella"},
		}

		// when
		product := Normalize(record)

		// then
		assert.Nil(t, product.Barcode)
	})

	t.Run("idempotent over the same record", func(t *testing.T) {
		// given
		record := &openfoodfacts.Record{
			Code:    "3017620422003",
			Product: openfoodfacts.RecordDetail{Name: "Nutella", ImageURL: "http://x/img.jpg"},
		}

		// when
		first := Normalize(record)
		second := Normalize(record)

		// then
		assert.Equal(t, first, second)
	})
}
