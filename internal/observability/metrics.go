package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teamtodo/taskgate/internal/call"
	"github.com/teamtodo/taskgate/model"
)

// Build-time variables injected via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	callDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
)

// Metrics holds the Prometheus instruments for the gateway.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CallsTotal              *prometheus.CounterVec
	CallDuration            *prometheus.HistogramVec
	ValidationFailuresTotal *prometheus.CounterVec
}

// InitMetrics creates and registers the gateway's metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskgate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_calls_total",
			Help: "Total number of dispatched store calls.",
		}, []string{"call", "type", "outcome"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskgate_call_duration_seconds",
			Help:    "Store call duration in seconds.",
			Buckets: callDurationBuckets,
		}, []string{"call", "type"}),
		ValidationFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_validation_failures_total",
			Help: "Total number of calls rejected by parameter validation.",
		}, []string{"call"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CallsTotal,
		m.CallDuration,
		m.ValidationFailuresTotal,
	)
	return m
}

// OnCallExecuted implements call.CallObserver.
func (m *Metrics) OnCallExecuted(_ context.Context, event call.CallEvent) {
	if event.ErrorCode == model.ErrInvalidParams {
		m.ValidationFailuresTotal.WithLabelValues(string(event.Call)).Inc()
		return
	}

	outcome := "success"
	if !event.Success {
		outcome = "error"
	}
	m.CallsTotal.WithLabelValues(string(event.Call), string(event.Type), outcome).Inc()
	m.CallDuration.WithLabelValues(string(event.Call), string(event.Type)).
		Observe(event.Duration.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware records request count and duration per route pattern.
func (m *Metrics) HTTPMiddleware(pattern string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).
				Observe(time.Since(start).Seconds())
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the written status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}
