// Package jobmetrics instruments the risk review and sweep tasks.
package jobmetrics

import (
	"errors"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded in profile_jobs_total.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	// StatusSkipped marks runs that gave up without retry, e.g. a customer
	// that no longer exists or has no usable birth date.
	StatusSkipped = "skipped"
)

// Metrics holds the job collectors.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	reviews  *prometheus.CounterVec
}

var (
	sharedOnce    sync.Once
	sharedMetrics *Metrics
)

// NewMetrics registers the collectors on registerer. A nil registerer returns
// a process-wide instance registered on prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer != nil {
		return register(registerer)
	}
	sharedOnce.Do(func() {
		sharedMetrics = register(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// Tracker times one job run.
type Tracker struct {
	m     *Metrics
	job   string
	start time.Time
}

// Track starts timing job. Safe on a nil receiver.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{m: m, job: job, start: time.Now()}
}

// End records the outcome of the run and hands err back unchanged, so it can
// sit in a deferred assignment to a named result.
func (t *Tracker) End(err error) error {
	if t == nil || t.m == nil || t.job == "" {
		return err
	}
	status := Outcome(err)
	if status == StatusFailure {
		t.m.failures.WithLabelValues(t.job).Inc()
	}
	t.m.runs.WithLabelValues(t.job, status).Inc()
	t.m.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

// Outcome classifies a handler result. Errors wrapping asynq.SkipRetry are
// skipped, not failed.
func Outcome(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, asynq.SkipRetry):
		return StatusSkipped
	default:
		return StatusFailure
	}
}

// AddReviewed counts re-scored customers by resulting risk level.
func (m *Metrics) AddReviewed(level string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.reviews.WithLabelValues(level).Add(float64(count))
}

func register(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_jobs_total",
			Help: "Background job runs by task type and outcome.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_jobs_failures_total",
			Help: "Background job runs that failed and will be retried.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "profile_job_duration_seconds",
			Help:    "Background job run time.",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 30, 120, 600},
		}, []string{"job"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_risk_reviews_total",
			Help: "Customers re-scored by background jobs grouped by risk level.",
		}, []string{"level"}),
	}
	registerer.MustRegister(m.runs, m.failures, m.duration, m.reviews)
	return m
}
