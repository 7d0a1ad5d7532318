package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func decodeResult(t *testing.T, dataURL string) image.Image {
	t.Helper()
	data, mime, err := DecodeDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestEncodeDownscalesLargeImage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "wide.png", 3200, 1000)

	out, err := NewEncoder().Encode(context.Background(), path, 0.85, 1600)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	b := decodeResult(t, out).Bounds()
	assert.Equal(t, 1600, b.Dx())
	assert.Equal(t, 500, b.Dy())
}

func TestEncodeKeepsSmallImage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "small.png", 640, 480)

	out, err := NewEncoder().Encode(context.Background(), path, 0.85, 1600)
	require.NoError(t, err)

	b := decodeResult(t, out).Bounds()
	assert.Equal(t, 640, b.Dx())
	assert.Equal(t, 480, b.Dy())
}

func TestEncodeTallImage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "tall.png", 900, 3600)

	out, err := NewEncoder().Encode(context.Background(), path, 0.85, 1600)
	require.NoError(t, err)

	b := decodeResult(t, out).Bounds()
	assert.Equal(t, 400, b.Dx())
	assert.Equal(t, 1600, b.Dy())
}

func TestEncodeUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0600))

	_, err := NewEncoder().Encode(context.Background(), path, 0.85, 1600)
	assert.Error(t, err)

	_, err = NewEncoder().Encode(context.Background(), filepath.Join(t.TempDir(), "missing.png"), 0.85, 1600)
	assert.Error(t, err)
}

func TestEncodeCancelled(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEncoder().Encode(ctx, path, 0.85, 1600)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{w: 3200, h: 1000, max: 1600, wantW: 1600, wantH: 500},
		{w: 1600, h: 1600, max: 1600, wantW: 1600, wantH: 1600},
		{w: 100, h: 50, max: 1600, wantW: 100, wantH: 50},
		{w: 10000, h: 1, max: 1600, wantW: 1600, wantH: 1},
		{w: 800, h: 600, max: 0, wantW: 800, wantH: 600},
	}

	for _, tc := range tests {
		w, h := ScaledSize(tc.w, tc.h, tc.max)
		assert.Equal(t, tc.wantW, w, "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, h, "%dx%d", tc.w, tc.h)
	}
}

func TestJPEGQuality(t *testing.T) {
	assert.Equal(t, 85, jpegQuality(0.85))
	assert.Equal(t, 1, jpegQuality(0))
	assert.Equal(t, 100, jpegQuality(1.5))
}

func TestDecodeDataURL(t *testing.T) {
	data, mime, err := DecodeDataURL("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("hello"), data)

	for _, bad := range []string{"", "hello", "data:image/png,aGVsbG8=", "data:image/png;base64", "data:image/png;base64,!!"} {
		_, _, err := DecodeDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}

func TestQueueFiles(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "photo.png", 4, 4)
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0600))

	files := QueueFiles([]string{img, txt, filepath.Join(dir, "missing.jpg")})
	require.Len(t, files, 3)

	assert.Equal(t, "photo.png", files[0].Name)
	assert.Equal(t, "image/png", files[0].Type)
	assert.True(t, files[0].IsImage())

	assert.False(t, files[1].IsImage())
	assert.False(t, files[2].IsImage())
}
