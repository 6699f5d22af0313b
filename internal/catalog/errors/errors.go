// Package errors defines the failure kinds of the ingestion pipeline.
//
// Every pipeline stage returns one of these sentinels (possibly wrapped);
// the orchestrator propagates the first one encountered unchanged and the
// HTTP layer is the only place where they are translated into statuses.
package errors

import "errors"

var (
	// ErrInvalidEncoding means the base64 payload could not be decoded.
	ErrInvalidEncoding = errors.New("invalid base64 payload")

	// ErrUnsupportedImage means the decoded bytes are not a readable image.
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")

	// ErrBarcodeNotFound means the image was scanned but no symbol was recognized.
	ErrBarcodeNotFound = errors.New("no barcode found")

	// ErrCatalogUnreachable means the external catalog could not be reached.
	ErrCatalogUnreachable = errors.New("catalog unreachable")

	// ErrCatalogMiss means the external catalog has no record for the barcode.
	ErrCatalogMiss = errors.New("no product found in catalog")

	// ErrCatalogSchemaMismatch means the catalog response did not match either
	// known schema variant.
	ErrCatalogSchemaMismatch = errors.New("catalog response schema mismatch")

	// ErrDuplicateProduct means an equivalent product is already stored.
	ErrDuplicateProduct = errors.New("duplicated product")

	// ErrProductNotFound means no stored product matches the requested key.
	ErrProductNotFound = errors.New("product not found")

	// ErrStorageFailure means the store was unreachable or returned an
	// unexpected fault.
	ErrStorageFailure = errors.New("storage failure")
)

// Benign reports whether err is an expected no-result outcome rather than an
// internal failure. Benign failures are answered with an empty result and
// logged at a low level.
func Benign(err error) bool {
	return errors.Is(err, ErrBarcodeNotFound) ||
		errors.Is(err, ErrCatalogMiss) ||
		errors.Is(err, ErrCatalogUnreachable)
}
