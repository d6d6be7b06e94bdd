package models

import "docverify/internal/identity"

// VerificationResponse is returned by both verification routes for every
// validation outcome, including rejections.
type VerificationResponse struct {
	Number     string          `json:"number"`
	Valid      bool            `json:"valid"`
	Confidence int             `json:"confidence"`
	HolderType string          `json:"holder_type,omitempty"`
	Reason     identity.Reason `json:"reason"`
	Receipt    *ReceiptRef     `json:"receipt,omitempty"`
}

// ReceiptRef points at a signed receipt for a valid result.
type ReceiptRef struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// NewVerificationResponse copies r into the wire shape.
func NewVerificationResponse(r identity.Result) VerificationResponse {
	return VerificationResponse{
		Number:     r.Number,
		Valid:      r.Valid,
		Confidence: r.Confidence,
		HolderType: r.HolderType,
		Reason:     r.Reason,
	}
}

// ReceiptInfo is the decoded content of a receipt token.
type ReceiptInfo struct {
	Document     identity.DocumentType `json:"document"`
	MaskedNumber string                `json:"number"`
	Confidence   int                   `json:"confidence"`
	HolderType   string                `json:"holder_type,omitempty"`
	Source       identity.Source       `json:"source"`
	IssuedAt     string                `json:"issued_at"`
	ExpiresAt    string                `json:"expires_at"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
