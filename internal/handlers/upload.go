package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	errNoFile          = errors.New("no file uploaded")
	errTooLarge        = errors.New("file too large")
	errUnsupportedType = errors.New("unsupported file type (allowed: png, jpg, jpeg, webp)")
	errEmptyFile       = errors.New("uploaded file is empty")
)

// fileFields are tried in order before falling back to the first file part.
var fileFields = []string{"file", "image", "document", "upload"}

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// parseForm parses multipart and urlencoded bodies under the body limit.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(h.bodyLimit)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return errTooLarge
		}
		return fmt.Errorf("failed to parse form: %w", err)
	}
	return nil
}

// readUpload returns the uploaded image, looking at the usual field names
// first. It returns errNoFile when the request carries no file part, which
// callers treat as a manual submission.
func readUpload(r *http.Request) ([]byte, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, errNoFile
	}

	header := lookupFile(r.MultipartForm)
	if header == nil || header.Filename == "" {
		return nil, errNoFile
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != "" {
		if _, ok := allowedExtensions[ext]; !ok {
			return nil, errUnsupportedType
		}
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, errEmptyFile
	}
	return data, nil
}

func lookupFile(form *multipart.Form) *multipart.FileHeader {
	for _, name := range fileFields {
		if hs := form.File[name]; len(hs) > 0 {
			return hs[0]
		}
	}
	for name, hs := range form.File {
		if len(hs) > 0 {
			log.Debug().Str("field", name).Msg("using non-standard file field")
			return hs[0]
		}
	}
	return nil
}

func uploadStatus(err error) int {
	if errors.Is(err, errTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
