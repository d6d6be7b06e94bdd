// Package receipt issues signed, stateless proofs that a document number
// passed validation. Nothing is stored server-side: the token is the receipt.
package receipt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skip2/go-qrcode"

	"docverify/internal/identity"
)

var (
	ErrDisabled     = errors.New("receipts are not configured")
	ErrInvalidToken = errors.New("receipt is invalid or has expired")
	ErrNotValid     = errors.New("only successful validations get a receipt")
)

const issuer = "docverify"

// Claims is what a receipt attests to. The number is always masked.
type Claims struct {
	Document     identity.DocumentType `json:"doc"`
	MaskedNumber string                `json:"num"`
	Confidence   int                   `json:"conf"`
	HolderType   string                `json:"holder,omitempty"`
	Source       identity.Source       `json:"src"`
	jwt.RegisteredClaims
}

// Issuer signs and checks receipts with a shared HMAC secret.
type Issuer struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

// NewIssuer returns nil when secret is empty; a nil *Issuer reports
// ErrDisabled from every method.
func NewIssuer(secret string, ttl time.Duration, baseURL string) *Issuer {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Issue signs a receipt for a successful validation result.
func (i *Issuer) Issue(doc identity.DocumentType, src identity.Source, r identity.Result) (string, error) {
	if i == nil {
		return "", ErrDisabled
	}
	if !r.Valid {
		return "", ErrNotValid
	}

	now := i.now()
	claims := Claims{
		Document:     doc,
		MaskedNumber: identity.Mask(r.Number),
		Confidence:   r.Confidence,
		HolderType:   r.HolderType,
		Source:       src,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign receipt: %w", err)
	}
	return signed, nil
}

// Parse verifies a receipt token and returns its claims.
func (i *Issuer) Parse(token string) (*Claims, error) {
	if i == nil {
		return nil, ErrDisabled
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Link is the public URL at which a receipt can be checked.
func (i *Issuer) Link(token string) string {
	base := "http://localhost:8080"
	if i != nil && i.baseURL != "" {
		base = i.baseURL
	}
	return base + "/api/v1/receipt?token=" + token
}

// QRCode renders the receipt link as a PNG after checking the token.
func (i *Issuer) QRCode(token string, size int) ([]byte, error) {
	if _, err := i.Parse(token); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(i.Link(token), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
