package openfoodfacts

import (
	"encoding/json"
	"fmt"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

// Record is the external catalog's native shape for one product. It is
// transient: it lives for the duration of one lookup and is consumed by the
// normalizer immediately.
//
// The upstream schema has drifted over time, so each field accepts two
// historical spellings. The aliases are independent, flat rules per field:
// `code` or `id` for the identifier, `product_name_fr` or `name` for the
// localized name, `image_url` or `image` for the image.
type Record struct {
	Code    string
	Product RecordDetail
}

// RecordDetail is the nested detail block of a Record.
type RecordDetail struct {
	Name     string
	ImageURL string
}

type rawRecord struct {
	Code    string           `json:"code"`
	ID      string           `json:"id"`
	Status  *int             `json:"status"`
	Product *rawRecordDetail `json:"product"`
}

type rawRecordDetail struct {
	ProductNameFr string `json:"product_name_fr"`
	Name          string `json:"name"`
	ImageURL      string `json:"image_url"`
	Image         string `json:"image"`
}

// UnmarshalJSON decodes either known schema variant into the canonical field
// set. A well-formed body that carries the upstream "status": 0 not-found
// envelope is reported as ErrCatalogMiss; anything else missing a required
// field is a schema mismatch.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", cerrors.ErrCatalogSchemaMismatch, err)
	}

	if raw.Product == nil {
		if raw.Status != nil && *raw.Status == 0 {
			return cerrors.ErrCatalogMiss
		}
		return fmt.Errorf("%w: missing product block", cerrors.ErrCatalogSchemaMismatch)
	}

	code := firstNonEmpty(raw.Code, raw.ID)
	if code == "" {
		return fmt.Errorf("%w: missing product code", cerrors.ErrCatalogSchemaMismatch)
	}
	name := firstNonEmpty(raw.Product.ProductNameFr, raw.Product.Name)
	if name == "" {
		return fmt.Errorf("%w: missing product name", cerrors.ErrCatalogSchemaMismatch)
	}

	r.Code = code
	r.Product = RecordDetail{
		Name:     name,
		ImageURL: firstNonEmpty(raw.Product.ImageURL, raw.Product.Image),
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
