package router

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"docverify/internal/handlers"
	"docverify/internal/imaging"
	"docverify/internal/metrics"
	"docverify/internal/middleware"
	"docverify/internal/ratelimit"
)

// Options configures the cross-cutting parts of the router. A nil
// RateLimitStore disables rate limiting. Forwarded client addresses are only
// honored from peers inside TrustedProxies.
type Options struct {
	AllowedOrigins []string
	TrustedProxies []netip.Prefix
	Metrics        *metrics.Metrics
	RateLimitStore ratelimit.Store
	RateLimit      int64
	RateWindow     time.Duration
}

func RegisterRouter(h *handlers.Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.TrustedRealIP(opts.TrustedProxies))
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.LoggingMiddleware(opts.Metrics))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// Receipts (public, token required via query param)
	r.Get("/api/v1/receipt", h.ReceiptInfo)
	r.Get("/api/v1/receipt/qrcode", h.ReceiptQRCode)

	// Uploads and OCR calls are rate limited per client.
	r.Group(func(r chi.Router) {
		if opts.RateLimitStore != nil {
			r.Use(middleware.RateLimit(opts.RateLimitStore, opts.RateLimit, opts.RateWindow, opts.Metrics))
		}
		r.Post("/aadharVerification", h.VerifyAadhar)
		r.Post("/panVerification", h.VerifyPAN)
		r.Post("/aadharResizeMAR", h.ResizeAadhar(imaging.KeepAspect))
		r.Post("/aadharResizeHard", h.ResizeAadhar(imaging.Exact))
		r.Post("/panResizeMAR", h.ResizePAN(imaging.KeepAspect))
		r.Post("/panResizeHard", h.ResizePAN(imaging.Exact))
		r.Post("/reduceSize", h.ReduceSize)
	})
	return r
}
