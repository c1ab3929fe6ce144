package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
	"github.com/ssargent/pngme/pkg/store"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. A nil *Metrics records
// nothing.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Image metrics
	chunksParsedTotal *prometheus.CounterVec
	parseErrorsTotal  *prometheus.CounterVec

	// Stash metrics
	stashOperationsTotal *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates the API metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pngme_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pngme_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pngme_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		chunksParsedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pngme_chunks_parsed_total",
				Help: "Total number of chunks parsed from uploaded images",
			},
			[]string{"type"},
		),

		parseErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pngme_parse_errors_total",
				Help: "Total number of rejected images by failure kind",
			},
			[]string{"kind"},
		),

		stashOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pngme_stash_operations_total",
				Help: "Total number of chunk stash operations",
			},
			[]string{"operation", "status"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pngme_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// registeredChunkTypes are the chunk types defined by the PNG and APNG
// standards. Only these get their own label value.
var registeredChunkTypes = map[codec.ChunkType]bool{}

func init() {
	for _, name := range []string{
		"IHDR", "PLTE", "IDAT", "IEND",
		"cHRM", "cICP", "gAMA", "iCCP", "mDCv", "cLLi", "sBIT", "sRGB",
		"bKGD", "hIST", "tRNS", "eXIf", "pHYs", "sPLT", "tIME",
		"iTXt", "tEXt", "zTXt",
		"acTL", "fcTL", "fdAT",
	} {
		registeredChunkTypes[codec.MustParseChunkType(name)] = true
	}
}

// chunkTypeLabel returns the metric label for t. Every type outside the
// registered set maps to "other".
func chunkTypeLabel(t codec.ChunkType) string {
	if registeredChunkTypes[t] {
		return t.String()
	}
	return "other"
}

// RecordChunks counts the chunks of a parsed image by type
func (m *Metrics) RecordChunks(p *png.PNG) {
	if m == nil {
		return
	}
	for _, c := range p.Chunks() {
		m.chunksParsedTotal.WithLabelValues(chunkTypeLabel(c.Type)).Inc()
	}
}

// RecordParseError counts a rejected image
func (m *Metrics) RecordParseError(err error) {
	if m == nil {
		return
	}
	m.parseErrorsTotal.WithLabelValues(errorKind(err)).Inc()
}

// RecordStashOperation records a stash operation
func (m *Metrics) RecordStashOperation(operation string, success bool) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.stashOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// errorKind maps a parse failure onto a small fixed label set.
func errorKind(err error) string {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return "too_large"
	case errors.Is(err, store.ErrChunkTooLarge):
		return "too_large"
	case errors.Is(err, png.ErrBadSignature):
		return "signature"
	case errors.Is(err, codec.ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, codec.ErrTruncatedInput):
		return "truncated"
	case errors.Is(err, png.ErrMissingTerminator):
		return "terminator"
	case errors.Is(err, png.ErrMissingHeader), errors.Is(err, png.ErrChunkAfterTerminator):
		return "structure"
	default:
		return "other"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
