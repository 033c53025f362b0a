package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Render pipeline metrics
	RenderTotal    *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	ImageBytes     prometheus.Histogram

	// Classifier metrics
	ClassifyTotal    *prometheus.CounterVec
	ClassifyDuration prometheus.Histogram

	// Validation metrics
	ValidationErrorsTotal *prometheus.CounterVec

	// Rate limiting
	RateLimitedTotal prometheus.Counter

	registry *prometheus.Registry
}

// Classification outcome labels for ClassifyTotal.
const (
	ClassifyOutcomeHit     = "hit"     // top candidate met the confidence floor
	ClassifyOutcomeLow     = "low"     // candidates produced, none confident enough
	ClassifyOutcomeEmpty   = "empty"   // no candidates at all
	ClassifyOutcomeSkipped = "skipped" // caller supplied the language
)

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkify_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkify_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkify_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),
		RenderTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkify_render_total",
				Help: "Total number of render jobs by outcome",
			},
			[]string{"status"},
		),
		RenderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inkify_render_duration_seconds",
				Help:    "Rendering engine call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ImageBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inkify_image_bytes",
				Help:    "Size of generated PNG images in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		ClassifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkify_classify_total",
				Help: "Language classification attempts by outcome",
			},
			[]string{"outcome"},
		),
		ClassifyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inkify_classify_duration_seconds",
				Help:    "Classifier inference duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
		ValidationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkify_validation_errors_total",
				Help: "Request validation failures by field",
			},
			[]string{"field"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inkify_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.RenderTotal,
		m.RenderDuration,
		m.ImageBytes,
		m.ClassifyTotal,
		m.ClassifyDuration,
		m.ValidationErrorsTotal,
		m.RateLimitedTotal,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps an HTTP handler with request metrics.
func (m *Metrics) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration.Seconds())
		m.HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.bytes))
	})
}

// statusRecorder captures the response status and size for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}
