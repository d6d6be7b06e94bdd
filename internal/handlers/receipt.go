package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"docverify/internal/models"
	"docverify/internal/receipt"
)

const invalidLink = "This verification link is invalid or has expired."

// ReceiptInfo: GET /api/v1/receipt?token=...
func (h *Handlers) ReceiptInfo(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.parseReceipt(w, r)
	if !ok {
		return
	}

	info := models.ReceiptInfo{
		Document:     claims.Document,
		MaskedNumber: claims.MaskedNumber,
		Confidence:   claims.Confidence,
		HolderType:   claims.HolderType,
		Source:       claims.Source,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.UTC().Format(time.RFC3339)
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}
	writeJSONResp(w, http.StatusOK, info)
}

// ReceiptQRCode: GET /api/v1/receipt/qrcode?token=...&size=256
func (h *Handlers) ReceiptQRCode(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 1024 {
			writeError(w, http.StatusBadRequest, "size must be between 64 and 1024")
			return
		}
		size = n
	}

	png, err := h.receipts.QRCode(token, size)
	if err != nil {
		writeReceiptError(w, err)
		return
	}
	writeImage(w, "image/png", png)
}

func (h *Handlers) parseReceipt(w http.ResponseWriter, r *http.Request) (*receipt.Claims, bool) {
	claims, err := h.receipts.Parse(r.URL.Query().Get("token"))
	if err != nil {
		writeReceiptError(w, err)
		return nil, false
	}
	return claims, true
}

func writeReceiptError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, receipt.ErrDisabled):
		writeError(w, http.StatusNotFound, "receipts are not enabled")
	case errors.Is(err, receipt.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, invalidLink)
	default:
		writeError(w, http.StatusInternalServerError, "failed to render receipt")
	}
}
