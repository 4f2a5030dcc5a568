// Package qr implements the text↔image codec boundary.
//
// Encoding uses skip2/go-qrcode, decoding uses makiuchi-d/gozxing (a zxing
// port). Both are pure Go and stateless; Codec methods are safe for
// concurrent use.
//
// Decode distinguishes "no QR code in the image" (ErrNotFound) from a real
// failure (unreadable image data): callers present the former to the user and
// only log the latter.
package qr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	// Uploads arrive as JPG or PNG; register both decoders.
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrNotFound indicates the image contains no decodable QR code.
var ErrNotFound = errors.New("no QR code found")

const (
	// DefaultImageSize is the generated image edge length in pixels.
	DefaultImageSize = 512
)

// Codec encodes text to a PNG QR image and decodes QR images back to text.
// The zero value is not usable; use New.
type Codec struct {
	size int
}

// New creates a Codec producing images of the given pixel size.
// size <= 0 means DefaultImageSize.
func New(size int) *Codec {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &Codec{size: size}
}

// Encode renders text as a PNG QR image.
//
// Medium error correction is used: it survives moderate damage while still
// holding up to 2331 bytes per code. High correction caps out near 1200
// bytes and would reject much of that range.
func (c *Codec) Encode(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(text, qrcode.Medium, c.size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR image: %w", err)
	}
	return png, nil
}

// Decode extracts the text from the first QR code found in the image.
// Returns ErrNotFound if the image decodes but contains no QR code.
func (c *Codec) Decode(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("preparing bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading QR code: %w", err)
	}
	return result.GetText(), nil
}
