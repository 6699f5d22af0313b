package service

import (
	"github.com/openpantry/backend/internal/catalog/openfoodfacts"
	"github.com/openpantry/backend/internal/catalog/store"
)

// Normalize maps an external catalog record onto the canonical product shape.
//
// The mapping is pure and total: every successfully parsed record yields a
// valid product. Quantity and category are never taken from the external
// source; they stay empty until the explicit update path fills them in.
// Normalizing the same record twice yields structurally identical products,
// store-assigned fields aside.
func Normalize(record *openfoodfacts.Record) store.Product {
	var barcode *string
	if record.Code != "" {
		code := record.Code
		barcode = &code
	}

	var image *string
	if record.Product.ImageURL != "" {
		url := record.Product.ImageURL
		image = &url
	}

	return store.Product{
		Name:    record.Product.Name,
		Image:   image,
		Barcode: barcode,
	}
}
