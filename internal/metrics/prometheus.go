package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jamesatitpong11/labflow-sub001/internal/response"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const _namespace = "labflow"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: _namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: _namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Identifier metrics
	identifiersGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "identifiers_generated_total",
			Help:      "Total number of identifiers handed out",
		},
		[]string{"entity"},
	)

	identifierRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "identifier_retries_total",
			Help:      "Total number of identifier generation retries",
		},
		[]string{"entity", "reason"},
	)

	identifierOverflow = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "identifier_overflow_total",
			Help:      "Identifiers whose sequence exceeded the fixed suffix width",
		},
		[]string{"entity"},
	)

	// Session metrics
	sessionValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "session_validations_total",
			Help:      "Total number of session validations by result",
		},
		[]string{"result"},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	sessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "sessions_swept_total",
			Help:      "Total number of inactive sessions removed by the sweeper",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled by the chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(mw.StatusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern keeps label cardinality bounded: raw paths contain LNs and visit numbers.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// --- Business metric helpers ---

func RecordIdentifierGenerated(entity string) {
	identifiersGenerated.WithLabelValues(entity).Inc()
}

func RecordIdentifierRetry(entity, reason string) {
	identifierRetries.WithLabelValues(entity, reason).Inc()
}

func RecordIdentifierOverflow(entity string) {
	identifierOverflow.WithLabelValues(entity).Inc()
}

func RecordSessionValidation(result string) {
	sessionValidations.WithLabelValues(result).Inc()
}

func RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	logins.WithLabelValues(result).Inc()
}

func RecordSessionsSwept(n int64) {
	sessionsSwept.Add(float64(n))
}
