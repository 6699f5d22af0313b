// Package barcode extracts barcode values from uploaded images.
package barcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

// Extractor decodes an image and scans it for a recognizable 1D/2D symbol.
// It is stateless and safe for concurrent use.
type Extractor struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewExtractor creates an Extractor recognizing the retail 1D symbologies
// (UPC/EAN family) plus QR codes.
func NewExtractor() *Extractor {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &Extractor{
		readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(hints),
			qrcode.NewQRCodeReader(),
		},
		hints: hints,
	}
}

// FromBase64 decodes the base64 payload and scans the resulting image.
// A malformed encoding fails with ErrInvalidEncoding before any image
// decoding is attempted.
func (e *Extractor) FromBase64(payload string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", cerrors.ErrInvalidEncoding, err)
	}
	return e.FromBytes(data)
}

// FromBytes parses raw image bytes and scans them for a barcode symbol.
// Undecodable image bytes fail with ErrUnsupportedImage; a readable image
// with no recognizable symbol fails with ErrBarcodeNotFound.
func (e *Extractor) FromBytes(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", cerrors.ErrUnsupportedImage, err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cerrors.ErrUnsupportedImage, err)
	}

	for _, reader := range e.readers {
		result, err := reader.Decode(bmp, e.hints)
		if err == nil {
			return result.GetText(), nil
		}
	}
	return "", cerrors.ErrBarcodeNotFound
}
