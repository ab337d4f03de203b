// Package imaging validates uploaded project images and re-encodes them as JPEG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/yigit/vitrine/internal/pkg/apperrors"
)

// JPEGQuality is used when re-encoding uploads
const JPEGQuality = 90

// Rejected uploads wrap apperrors.ErrInvalidImage
var (
	ErrEmpty     = fmt.Errorf("%w: empty upload", apperrors.ErrInvalidImage)
	ErrNotImage  = fmt.Errorf("%w: not a supported image", apperrors.ErrInvalidImage)
	ErrNotSquare = fmt.Errorf("%w: not square", apperrors.ErrInvalidImage)
)

// Decode sniffs and decodes an uploaded image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mime.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}

// IsSquare reports whether img has equal width and height
func IsSquare(img image.Image) bool {
	b := img.Bounds()
	return b.Dx() > 0 && b.Dx() == b.Dy()
}

// DecodeSquare decodes an upload and requires it to be square.
func DecodeSquare(r io.Reader) (image.Image, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if !IsSquare(img) {
		b := img.Bounds()
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, b.Dx(), b.Dy())
	}
	return img, nil
}

// EncodeJPEG writes img as JPEG
func EncodeJPEG(w io.Writer, img image.Image) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return nil
}
