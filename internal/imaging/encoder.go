package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"strings"

	// Registered decoders
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

const dataURLPrefix = "data:image/jpeg;base64,"

var (
	ErrInvalidDataURL = errors.New("invalid image data url")
	ErrEmptyImage     = errors.New("image has no pixels")
)

// Encoder decodes an image file, scales it down to fit a bounding square and
// re-encodes it as a JPEG data URL.
type Encoder struct {
	// Scaler is the interpolator used for downscaling. Defaults to CatmullRom.
	Scaler draw.Scaler
}

// NewEncoder returns an Encoder with the default scaler
func NewEncoder() *Encoder {
	return &Encoder{Scaler: draw.CatmullRom}
}

// Encode reads the image at path. If its longer side exceeds maxDimension it
// is scaled by maxDimension/longer side, preserving aspect ratio. Quality is
// in (0, 1].
func (e *Encoder) Encode(ctx context.Context, path string, quality float64, maxDimension int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return e.EncodeImage(src, quality, maxDimension)
}

// EncodeImage scales and encodes an already decoded image
func (e *Encoder) EncodeImage(src image.Image, quality float64, maxDimension int) (string, error) {
	b := src.Bounds()
	if b.Empty() {
		return "", ErrEmptyImage
	}

	w, h := ScaledSize(b.Dx(), b.Dy(), maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	// JPEG has no alpha; flatten onto white like a canvas export does
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scaler := e.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ScaledSize returns the dimensions after applying scale = min(1, max/longer side).
// Neither side drops below one pixel.
func ScaledSize(w, h, maxDimension int) (int, int) {
	longer := max(w, h)
	if maxDimension <= 0 || longer <= maxDimension {
		return w, h
	}
	scale := float64(maxDimension) / float64(longer)
	sw := max(1, int(float64(w)*scale+0.5))
	sh := max(1, int(float64(h)*scale+0.5))
	return sw, sh
}

func jpegQuality(q float64) int {
	v := int(q*100 + 0.5)
	switch {
	case v < 1:
		return 1
	case v > 100:
		return 100
	}
	return v
}

// DecodeDataURL returns the raw bytes of a base64 image data URL and its MIME type
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("%w: not base64", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return data, mime, nil
}
