package imaging

import (
	"context"

	"docverify/internal/identity"
	"docverify/internal/ocr"
)

// Readable runs OCR over a resized card and reports whether an identifier of
// type t can still be found in it.
func Readable(ctx context.Context, d ocr.Detector, t identity.DocumentType, data []byte) (bool, error) {
	lines, err := d.DetectText(ctx, data)
	if err != nil {
		return false, err
	}
	_, ok := identity.FindCandidate(t, lines)
	return ok, nil
}
