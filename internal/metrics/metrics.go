package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docverify/internal/identity"
)

// Metrics holds the Prometheus collectors for the service. Each instance owns
// its registry so tests and embedded servers can create several.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Verification metrics
	verificationsTotal *prometheus.CounterVec
	confidence         *prometheus.HistogramVec

	// OCR metrics
	ocrDuration *prometheus.HistogramVec
	ocrErrors   prometheus.Counter

	// Image metrics
	imageOpsTotal *prometheus.CounterVec

	// Rate limiting metrics
	rateLimitHitsTotal prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docverify_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docverify_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		verificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docverify_verifications_total",
				Help: "Verification outcomes by document, input source and reason",
			},
			[]string{"document", "source", "reason"},
		),
		confidence: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docverify_confidence",
				Help:    "Confidence scores reported for verifications",
				Buckets: []float64{0, 30, 60, 70, 80, 85, 90, 100},
			},
			[]string{"document"},
		),
		ocrDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docverify_ocr_duration_seconds",
				Help:    "Text detection latency in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2, 4, 8, 15, 30},
			},
			[]string{"document"},
		),
		ocrErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "docverify_ocr_errors_total",
			Help: "Text detection calls that failed",
		}),
		imageOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docverify_image_operations_total",
				Help: "Image resize and reduce operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		rateLimitHitsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "docverify_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest counts one request. route is the matched route pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordVerification(doc identity.DocumentType, src identity.Source, r identity.Result) {
	if m == nil {
		return
	}
	m.verificationsTotal.WithLabelValues(string(doc), string(src), string(r.Reason)).Inc()
	m.confidence.WithLabelValues(string(doc)).Observe(float64(r.Confidence))
}

func (m *Metrics) RecordOCR(doc identity.DocumentType, d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ocrErrors.Inc()
		return
	}
	m.ocrDuration.WithLabelValues(string(doc)).Observe(d.Seconds())
}

func (m *Metrics) RecordImageOp(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.imageOpsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordRateLimitHit() {
	if m == nil {
		return
	}
	m.rateLimitHitsTotal.Inc()
}
