//go:build cgo && ocr

// Package tesseract provides a local OCR engine backed by Tesseract through
// gosseract. It is only compiled with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Recognising the Devanagari keywords on the cards needs the "hin" trained
// data next to "eng".
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog/log"

	"docverify/internal/ocr"
)

// Engine implements ocr.Detector. Each call uses its own gosseract client;
// clients are not safe for concurrent use.
type Engine struct {
	languages []string
}

// New returns a Tesseract engine for the given languages (default eng+hin).
func New(languages []string) (*Engine, error) {
	if len(languages) == 0 {
		languages = []string{"eng", "hin"}
	}
	log.Info().Strs("languages", languages).Msg("tesseract OCR engine ready")
	return &Engine{languages: languages}, nil
}

func (e *Engine) DetectText(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return ocr.SplitLines(text), nil
}

var _ ocr.Detector = (*Engine)(nil)
