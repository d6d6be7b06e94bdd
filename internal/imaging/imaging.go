// Package imaging resizes and recompresses uploaded identity-card images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotAnImage        = errors.New("file is not a supported image")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrImageTooLarge     = errors.New("image exceeds maximum allowed dimensions")
	ErrEncodeFailed      = errors.New("image encoding failed")
)

// DefaultMaxDimension bounds the width and height of both uploaded and
// requested images.
const DefaultMaxDimension = 8192

// MaxSourcePixels caps the decoded size of an upload regardless of the
// per-side limit. 40 megapixels is well above any phone camera card scan.
const MaxSourcePixels = 40_000_000

// ResizeQuality is the JPEG quality of resized cards.
const ResizeQuality = 95

// Mode selects how Resize treats the requested height.
type Mode int

const (
	// KeepAspect scales to the requested width; height follows the aspect ratio.
	KeepAspect Mode = iota
	// Exact scales to exactly width x height.
	Exact
)

// Processor holds the limits applied to every operation.
type Processor struct {
	maxDimension int
}

func NewProcessor(maxDimension int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Processor{maxDimension: maxDimension}
}

// Decode parses JPEG, PNG or WebP data and flattens any transparency onto
// white, since the output is always JPEG. The header is checked against the
// processor limits before any pixel buffer is allocated.
func (p *Processor) Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if err := p.checkSource(cfg.Width, cfg.Height); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return flatten(img), format, nil
}

func (p *Processor) checkSource(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: source is %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > p.maxDimension || height > p.maxDimension {
		return fmt.Errorf("%w: source is %dx%d, limit is %d per side", ErrImageTooLarge, width, height, p.maxDimension)
	}
	if int64(width)*int64(height) > MaxSourcePixels {
		return fmt.Errorf("%w: source has %d pixels, limit is %d", ErrImageTooLarge, int64(width)*int64(height), MaxSourcePixels)
	}
	return nil
}

// Resize decodes data, scales it and re-encodes it as JPEG.
func (p *Processor) Resize(data []byte, mode Mode, width, height int) ([]byte, error) {
	if width <= 0 || (mode == Exact && height <= 0) {
		return nil, fmt.Errorf("%w: width and height must be positive", ErrInvalidDimensions)
	}
	if width > p.maxDimension || (mode == Exact && height > p.maxDimension) {
		return nil, fmt.Errorf("%w: limit is %d", ErrImageTooLarge, p.maxDimension)
	}

	src, _, err := p.Decode(data)
	if err != nil {
		return nil, err
	}

	if mode == KeepAspect {
		b := src.Bounds()
		height = width * b.Dy() / b.Dx()
		if height <= 0 {
			return nil, fmt.Errorf("%w: computed height is zero", ErrInvalidDimensions)
		}
		if height > p.maxDimension {
			return nil, fmt.Errorf("%w: computed height %d exceeds %d", ErrImageTooLarge, height, p.maxDimension)
		}
	}

	return EncodeJPEG(scale(src, width, height), ResizeQuality)
}

// EncodeJPEG encodes img at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

func scale(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// CatmullRom keeps small print legible for OCR
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func flatten(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
