package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"docverify/internal/identity"
	"docverify/internal/models"
	"docverify/internal/ocr"
)

// VerifyAadhar: POST /aadharVerification
// multipart/form-data with an image in "file", or a form field "number".
func (h *Handlers) VerifyAadhar(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, identity.Aadhar{})
}

// VerifyPAN: POST /panVerification
func (h *Handlers) VerifyPAN(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, identity.PAN{})
}

func (h *Handlers) verify(w http.ResponseWriter, r *http.Request, v identity.Verifier) {
	doc := v.Type()
	if err := h.parseForm(w, r); err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return
	}

	var (
		res identity.Result
		src identity.Source
	)
	data, err := readUpload(r)
	switch {
	case err == nil:
		src = identity.SourceImage
		lines, status, msg := h.detect(r, doc, data)
		if status != 0 {
			writeError(w, status, msg)
			return
		}
		res = v.FromText(ocr.Join(lines))
	case errors.Is(err, errNoFile):
		src = identity.SourceManual
		res = v.FromManual(r.FormValue("number"))
	default:
		writeError(w, uploadStatus(err), err.Error())
		return
	}

	h.metrics.RecordVerification(doc, src, res)
	log.Info().
		Str("doc", string(doc)).
		Str("source", string(src)).
		Str("number", identity.Mask(res.Number)).
		Bool("valid", res.Valid).
		Int("confidence", res.Confidence).
		Str("reason", string(res.Reason)).
		Msg("verification")

	resp := models.NewVerificationResponse(res)
	if res.Valid && h.receipts != nil {
		token, err := h.receipts.Issue(doc, src, res)
		if err != nil {
			log.Error().Err(err).Str("doc", string(doc)).Msg("failed to issue receipt")
		} else {
			resp.Receipt = &models.ReceiptRef{Token: token, URL: h.receipts.Link(token)}
		}
	}
	writeJSONResp(w, http.StatusOK, resp)
}

// detect runs OCR on an uploaded image. A non-zero status means the request
// must fail without reaching the validator.
func (h *Handlers) detect(r *http.Request, doc identity.DocumentType, data []byte) ([]string, int, string) {
	start := time.Now()
	lines, err := h.detector.DetectText(r.Context(), data)
	h.metrics.RecordOCR(doc, time.Since(start), err)
	if err == nil {
		return lines, 0, ""
	}

	if errors.Is(err, ocr.ErrUnavailable) {
		return nil, http.StatusServiceUnavailable, "image verification is not available; submit the number instead"
	}
	log.Error().Err(err).Str("doc", string(doc)).Msg("text detection failed")
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, http.StatusGatewayTimeout, "text detection timed out"
	}
	return nil, http.StatusBadGateway, "could not extract text from image"
}
