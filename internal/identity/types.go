// Package identity validates Indian identity-document numbers (Aadhar, PAN)
// either from OCR text of a document image or from a number typed by the
// user. Everything in this package is pure: no I/O, no shared mutable state,
// safe to call from concurrent request handlers.
package identity

import "strings"

// DocumentType names a supported identity document.
type DocumentType string

const (
	DocAadhar DocumentType = "aadhar"
	DocPAN    DocumentType = "pan"
)

// ParseDocumentType accepts the common spellings used by clients.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aadhar", "aadhaar", "uid":
		return DocAadhar, true
	case "pan":
		return DocPAN, true
	}
	return "", false
}

// Source records where an identifier came from.
type Source string

const (
	SourceImage  Source = "image"
	SourceManual Source = "manual"
)

// Reason classifies the outcome of a validation.
type Reason string

const (
	ReasonSuccess              Reason = "success"
	ReasonInputMalformed       Reason = "input_malformed"
	ReasonClassificationFailed Reason = "classification_failed"
	ReasonNoCandidate          Reason = "no_candidate"
	ReasonChecksumFailed       Reason = "checksum_failed"
	ReasonStructureInvalid     Reason = "structure_invalid"
)

// Candidate is an identifier-shaped span pulled from user input or OCR text.
type Candidate struct {
	Original string
	Cleaned  string
	Source   Source
}

// Result is the outcome of validating one submission. A Result with
// Valid set has passed format and checksum (Aadhar) or structure (PAN)
// validation. Confidence is only meaningful when Number is non-empty.
type Result struct {
	Valid      bool   `json:"valid"`
	Number     string `json:"number"`
	Confidence int    `json:"confidence"`
	HolderType string `json:"holder_type,omitempty"`
	Reason     Reason `json:"reason"`
}

func rejected(reason Reason) Result {
	return Result{Reason: reason}
}

// Verifier is implemented once per document type.
type Verifier interface {
	Type() DocumentType
	FromText(fullText string) Result
	FromManual(input string) Result
}

// For returns the Verifier for t.
func For(t DocumentType) (Verifier, bool) {
	switch t {
	case DocAadhar:
		return Aadhar{}, true
	case DocPAN:
		return PAN{}, true
	}
	return nil, false
}

// stripSeparators removes whitespace and hyphens.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0', '-':
			return -1
		}
		return r
	}, s)
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }
