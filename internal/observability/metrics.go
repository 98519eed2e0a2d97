package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Update outcomes recorded in profile_customer_updates_total.
const (
	UpdateApplied  = "updated"
	UpdateNotFound = "not_found"
	UpdateRejected = "rejected"
	UpdateError    = "error"
)

// unmatchedRoute labels requests chi could not route, keeping scanner noise
// out of the route cardinality.
const unmatchedRoute = "unmatched"

// Metrics owns a private registry for the API or worker process.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	assessments *prometheus.CounterVec
	updates     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_http_requests_total",
			Help: "HTTP requests by chi route pattern and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "profile_http_request_duration_seconds",
			Help:    "HTTP request latency by chi route pattern.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"route"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_risk_assessments_total",
			Help: "Risk profiles computed, by resulting level.",
		}, []string{"level"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_customer_updates_total",
			Help: "Customer PATCH requests by outcome.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.assessments, m.updates,
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Handler serves the registry. A nil Metrics answers 503.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registerer lets other packages add collectors to the same registry.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// Middleware records count and latency per route. The route pattern is read
// after the handler runs since chi resolves it while routing.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		route := routePattern(r)
		m.requests.WithLabelValues(route, strconv.Itoa(sw.Status())).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) RecordAssessment(level string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(level).Inc()
}

// RecordCustomerUpdate counts a PATCH by its response status.
func (m *Metrics) RecordCustomerUpdate(status int) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(UpdateResult(status)).Inc()
}

// UpdateResult maps a PATCH response status to its outcome label.
func UpdateResult(status int) string {
	switch {
	case status < http.StatusMultipleChoices:
		return UpdateApplied
	case status == http.StatusNotFound:
		return UpdateNotFound
	case status < http.StatusInternalServerError:
		return UpdateRejected
	default:
		return UpdateError
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Status is the code sent to the client, 200 if the handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
