// Package ocr defines the text-detection collaborator the verification
// handlers call before handing text to the identity package.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnavailable is returned when no OCR engine is configured.
var ErrUnavailable = errors.New("ocr engine not configured")

// Detector extracts text lines from an encoded image. An image without any
// text yields an empty slice and a nil error.
type Detector interface {
	DetectText(ctx context.Context, image []byte) ([]string, error)
}

// DetectorFunc adapts a plain function to Detector.
type DetectorFunc func(ctx context.Context, image []byte) ([]string, error)

func (f DetectorFunc) DetectText(ctx context.Context, image []byte) ([]string, error) {
	return f(ctx, image)
}

// Unavailable is used when the service runs without OCR; every image-based
// request fails with ErrUnavailable while manual entry keeps working.
var Unavailable Detector = DetectorFunc(func(context.Context, []byte) ([]string, error) {
	return nil, ErrUnavailable
})

// WithTimeout bounds every call to d. Engines that do not watch ctx keep
// running in the background after the deadline, but the caller is released.
func WithTimeout(d Detector, timeout time.Duration) Detector {
	if timeout <= 0 {
		return d
	}
	type result struct {
		lines []string
		err   error
	}
	return DetectorFunc(func(ctx context.Context, image []byte) ([]string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		ch := make(chan result, 1)
		go func() {
			lines, err := d.DetectText(ctx, image)
			ch <- result{lines, err}
		}()
		select {
		case r := <-ch:
			return r.lines, r.err
		case <-ctx.Done():
			return nil, fmt.Errorf("text detection: %w", ctx.Err())
		}
	})
}

// Join rebuilds the full annotation text from its lines.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// SplitLines splits a full annotation description into lines, dropping the
// trailing empty line most engines emit.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
