package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/identity"
	"docverify/internal/ocr"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x * y) % 256), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image, q int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	return cfg.Width, cfg.Height
}

func TestResizeKeepAspect(t *testing.T) {
	p := NewProcessor(0)
	out, err := p.Resize(encodePNG(t, gradient(200, 100)), KeepAspect, 100, 999)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestResizeExact(t *testing.T) {
	p := NewProcessor(0)
	out, err := p.Resize(encodeJPEG(t, gradient(200, 100), 90), Exact, 60, 40)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 60, w)
	assert.Equal(t, 40, h)
}

func TestResizeRejectsBadInput(t *testing.T) {
	p := NewProcessor(500)
	img := encodePNG(t, gradient(20, 10))

	tests := []struct {
		name   string
		data   []byte
		mode   Mode
		w, h   int
		target error
	}{
		{"zero width", img, KeepAspect, 0, 0, ErrInvalidDimensions},
		{"zero height exact", img, Exact, 10, 0, ErrInvalidDimensions},
		{"negative width", img, Exact, -1, 10, ErrInvalidDimensions},
		{"too wide", img, Exact, 501, 10, ErrImageTooLarge},
		{"too tall", img, Exact, 10, 501, ErrImageTooLarge},
		{"aspect height too tall", encodePNG(t, gradient(10, 100)), KeepAspect, 100, 0, ErrImageTooLarge},
		{"not an image", []byte("definitely not an image"), Exact, 10, 10, ErrNotAnImage},
		{"source wider than limit", encodePNG(t, image.NewGray(image.Rect(0, 0, 600, 10))), Exact, 10, 10, ErrImageTooLarge},
		{"source taller than limit", encodePNG(t, image.NewGray(image.Rect(0, 0, 10, 600))), KeepAspect, 10, 0, ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Resize(tt.data, tt.mode, tt.w, tt.h)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDecodeFlattensTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})

	decoded, format, err := NewProcessor(0).Decode(encodePNG(t, img))
	require.NoError(t, err)
	require.Equal(t, "png", format)

	r, g, b, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
	r, g, b, _ = decoded.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestReduceShrinksHighQualityJPEG(t *testing.T) {
	p := NewProcessor(0)
	in := encodeJPEG(t, gradient(400, 300), 100)

	out, err := p.Reduce(in)
	require.NoError(t, err)
	assert.Less(t, len(out), len(in))
	decodedSize(t, out)
}

func TestReduceNeverGrows(t *testing.T) {
	p := NewProcessor(0)
	for _, in := range [][]byte{
		encodeJPEG(t, gradient(8, 8), 5),
		encodePNG(t, image.NewGray(image.Rect(0, 0, 16, 16))),
		encodePNG(t, gradient(120, 80)),
	} {
		out, err := p.Reduce(in)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(out), len(in))
	}
}

func TestReduceRejectsOversizedSource(t *testing.T) {
	// A blank 600x600 PNG compresses to a few hundred bytes; the header alone
	// must be enough to refuse it.
	in := encodePNG(t, image.NewGray(image.Rect(0, 0, 600, 600)))
	require.Less(t, len(in), 4096)

	_, err := NewProcessor(500).Reduce(in)
	require.ErrorIs(t, err, ErrImageTooLarge)

	_, err = NewProcessor(600).Reduce(in)
	require.NoError(t, err)
}

func TestDecodePixelBudget(t *testing.T) {
	p := NewProcessor(DefaultMaxDimension)
	require.NoError(t, p.checkSource(DefaultMaxDimension, MaxSourcePixels/DefaultMaxDimension))
	require.ErrorIs(t, p.checkSource(DefaultMaxDimension, DefaultMaxDimension), ErrImageTooLarge)
	require.ErrorIs(t, p.checkSource(0, 10), ErrInvalidDimensions)
}

func TestReduceRejectsGarbage(t *testing.T) {
	_, err := NewProcessor(0).Reduce([]byte{0x00, 0x01})
	require.ErrorIs(t, err, ErrNotAnImage)
}

func TestReadable(t *testing.T) {
	detector := ocr.DetectorFunc(func(context.Context, []byte) ([]string, error) {
		return []string{"INCOME TAX DEPARTMENT", "BWPPA3202G"}, nil
	})

	ok, err := Readable(context.Background(), detector, identity.DocPAN, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Readable(context.Background(), detector, identity.DocAadhar, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	failing := ocr.DetectorFunc(func(context.Context, []byte) ([]string, error) {
		return nil, errors.New("quota exceeded")
	})
	_, err = Readable(context.Background(), failing, identity.DocPAN, nil)
	require.Error(t, err)
}
