package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"docverify/internal/identity"
	"docverify/internal/imaging"
)

const inappropriateSize = "Inappropriate size"

// ResizeAadhar returns the handler for /aadharResizeMAR and /aadharResizeHard.
func (h *Handlers) ResizeAadhar(mode imaging.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.resize(w, r, identity.DocAadhar, mode)
	}
}

// ResizePAN returns the handler for /panResizeMAR and /panResizeHard.
func (h *Handlers) ResizePAN(mode imaging.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.resize(w, r, identity.DocPAN, mode)
	}
}

// resize scales the uploaded card and checks that the identifier survived.
// PAN output must be readable; for Aadhar an OCR failure does not block the
// resize, but text without an Aadhar number does.
func (h *Handlers) resize(w http.ResponseWriter, r *http.Request, doc identity.DocumentType, mode imaging.Mode) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return
	}
	data, err := readUpload(r)
	if err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return
	}

	width, werr := formInt(r, "width")
	height, herr := formInt(r, "height")
	if werr != nil || herr != nil {
		writeError(w, http.StatusBadRequest, "width and height must be integers")
		return
	}

	out, err := h.images.Resize(data, mode, width, height)
	h.metrics.RecordImageOp("resize", err)
	if err != nil {
		log.Warn().Err(err).Str("doc", string(doc)).Int("width", width).Int("height", height).Msg("resize rejected")
		writeError(w, http.StatusBadRequest, resizeMessage(err))
		return
	}

	ok, err := imaging.Readable(r.Context(), h.detector, doc, out)
	switch {
	case err != nil && doc == identity.DocPAN:
		log.Warn().Err(err).Msg("pan readability check failed")
		writeError(w, http.StatusBadRequest, inappropriateSize)
		return
	case err != nil:
		log.Debug().Err(err).Msg("aadhar readability check skipped")
	case !ok:
		writeError(w, http.StatusBadRequest, inappropriateSize)
		return
	}

	writeImage(w, "image/jpeg", out)
}

// ReduceSize: POST /reduceSize
func (h *Handlers) ReduceSize(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return
	}
	data, err := readUpload(r)
	if err != nil {
		writeError(w, uploadStatus(err), err.Error())
		return
	}

	out, err := h.images.Reduce(data)
	h.metrics.RecordImageOp("reduce", err)
	if err != nil {
		if errors.Is(err, imaging.ErrNotAnImage) || errors.Is(err, imaging.ErrImageTooLarge) || errors.Is(err, imaging.ErrInvalidDimensions) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("reduce failed")
		writeError(w, http.StatusInternalServerError, "Error reducing size")
		return
	}
	log.Debug().Int("in", len(data)).Int("out", len(out)).Msg("image reduced")
	// Reduce hands back the upload itself when no re-encode is smaller.
	writeImage(w, http.DetectContentType(out), out)
}

// formInt reads an integer form value; a missing value reads as zero.
func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func resizeMessage(err error) string {
	if errors.Is(err, imaging.ErrNotAnImage) {
		return err.Error()
	}
	return inappropriateSize
}
