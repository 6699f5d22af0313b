package barcode

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

// encodeEAN13 renders a known EAN-13 symbol as PNG bytes.
func encodeEAN13(t *testing.T, value string) []byte {
	t.Helper()
	matrix, err := oned.NewEAN13Writer().Encode(value, gozxing.BarcodeFormat_EAN_13, 260, 100, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))
	return buf.Bytes()
}

// blankPNG renders an image containing no symbol at all.
func blankPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func Test_Extractor_RoundTrip(t *testing.T) {
	// given
	const ean = "3017620422003"
	imageBytes := encodeEAN13(t, ean)
	extractor := NewExtractor()

	// when
	decoded, err := extractor.FromBytes(imageBytes)

	// then
	require.NoError(t, err)
	assert.Equal(t, ean, decoded)
}

func Test_Extractor_FromBase64(t *testing.T) {
	const ean = "3017620422003"
	extractor := NewExtractor()
	payload := base64.StdEncoding.EncodeToString(encodeEAN13(t, ean))

	decoded, err := extractor.FromBase64(payload)

	require.NoError(t, err)
	assert.Equal(t, ean, decoded)
}

func Test_Extractor_InvalidBase64(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.FromBase64("this is definitely !!! not base64")

	// Malformed encoding must fail before any image decoding is attempted.
	assert.ErrorIs(t, err, cerrors.ErrInvalidEncoding)
}

func Test_Extractor_UnsupportedImage(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.FromBytes([]byte("not an image at all"))

	assert.ErrorIs(t, err, cerrors.ErrUnsupportedImage)
}

func Test_Extractor_NoSymbolFound(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.FromBytes(blankPNG(t))

	assert.ErrorIs(t, err, cerrors.ErrBarcodeNotFound)
}
