//go:build !(cgo && ocr)

package tesseract

import (
	"context"
	"errors"

	"docverify/internal/ocr"
)

// ErrNotEnabled is returned when the binary was built without the "ocr" tag.
var ErrNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

type Engine struct{}

func New(languages []string) (*Engine, error) {
	return nil, ErrNotEnabled
}

func (e *Engine) DetectText(ctx context.Context, image []byte) ([]string, error) {
	return nil, ErrNotEnabled
}

var _ ocr.Detector = (*Engine)(nil)
