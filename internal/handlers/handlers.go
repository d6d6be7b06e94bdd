// Package handlers implements the HTTP endpoints. Handlers translate
// multipart requests into calls on the identity, imaging and receipt
// packages; none of them keep request data after responding.
package handlers

import (
	"encoding/json"
	"net/http"

	"docverify/internal/imaging"
	"docverify/internal/metrics"
	"docverify/internal/models"
	"docverify/internal/ocr"
	"docverify/internal/receipt"
)

// DefaultBodyLimit caps request bodies when Deps.BodyLimit is unset.
const DefaultBodyLimit = 16 << 20

// Deps are the collaborators shared by all handlers. Receipts and Metrics
// may be nil.
type Deps struct {
	Detector  ocr.Detector
	Images    *imaging.Processor
	Receipts  *receipt.Issuer
	Metrics   *metrics.Metrics
	BodyLimit int64
}

type Handlers struct {
	detector  ocr.Detector
	images    *imaging.Processor
	receipts  *receipt.Issuer
	metrics   *metrics.Metrics
	bodyLimit int64
}

func New(d Deps) *Handlers {
	h := &Handlers{
		detector:  d.Detector,
		images:    d.Images,
		receipts:  d.Receipts,
		metrics:   d.Metrics,
		bodyLimit: d.BodyLimit,
	}
	if h.detector == nil {
		h.detector = ocr.Unavailable
	}
	if h.images == nil {
		h.images = imaging.NewProcessor(0)
	}
	if h.bodyLimit <= 0 {
		h.bodyLimit = DefaultBodyLimit
	}
	return h
}

// Health: GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONResp(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	code := "Bad_Request"
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = "Payload_Too_Large"
	case status == http.StatusUnauthorized:
		code = "Unauthorized"
	case status == http.StatusNotFound:
		code = "Not_Found"
	case status == http.StatusBadGateway:
		code = "Bad_Gateway"
	case status == http.StatusServiceUnavailable:
		code = "Service_Unavailable"
	case status >= http.StatusInternalServerError:
		code = "Server_Error"
	}
	writeJSONResp(w, status, models.ErrorResponse{Status: code, Message: msg})
}

func writeImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
