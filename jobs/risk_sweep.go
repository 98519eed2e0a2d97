package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/customer-profile/internal/customers"
	jobmetrics "github.com/odyssey-erp/customer-profile/internal/jobs"
	"github.com/odyssey-erp/customer-profile/internal/risk"
)

const defaultMaxWarnings = 50

// CustomerLister returns every stored customer.
type CustomerLister interface {
	List(ctx context.Context) ([]customers.Customer, error)
}

// Scorer computes a profile for a customer snapshot.
type Scorer interface {
	Calculate(c customers.Customer) (*risk.Profile, error)
}

// SweepSummary totals one sweep run.
type SweepSummary struct {
	Scored   map[risk.Level]int
	Unscored int
}

// RiskSweepJob re-scores the whole registry.
type RiskSweepJob struct {
	Customers CustomerLister
	Scorer    Scorer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

func NewRiskSweepJob(lister CustomerLister, scorer Scorer, logger *slog.Logger, metrics *jobmetrics.Metrics) *RiskSweepJob {
	return &RiskSweepJob{Customers: lister, Scorer: scorer, Logger: logger, Metrics: metrics}
}

// Handle processes TaskRiskSweep tasks.
func (j *RiskSweepJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Customers == nil || j.Scorer == nil {
		return errors.New("risk sweep: handler not configured")
	}
	var payload RiskSweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("risk sweep: bad payload: %w", asynq.SkipRetry)
		}
	}
	if payload.MaxWarnings <= 0 {
		payload.MaxWarnings = defaultMaxWarnings
	}

	tracker := j.metrics().Track(TaskRiskSweep)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := time.Now()
	summary, err := j.Sweep(ctx, payload.MaxWarnings)
	if err != nil {
		j.logger().Error("sweep failed", slog.Any("error", err))
		return err
	}
	j.logger().Info("completed risk sweep",
		slog.Int("low", summary.Scored[risk.LevelLow]),
		slog.Int("moderate", summary.Scored[risk.LevelModerate]),
		slog.Int("high", summary.Scored[risk.LevelHigh]),
		slog.Int("unscored", summary.Unscored),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Sweep scores every customer. Customers without a usable birth date are
// counted as unscored and do not fail the run.
func (j *RiskSweepJob) Sweep(ctx context.Context, maxWarnings int) (SweepSummary, error) {
	summary := SweepSummary{Scored: make(map[risk.Level]int, 3)}
	all, err := j.Customers.List(ctx)
	if err != nil {
		return summary, err
	}
	warned := 0
	for _, c := range all {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		profile, err := j.Scorer.Calculate(c)
		if err != nil {
			summary.Unscored++
			j.logger().Debug("skipping customer", slog.Int64("customer_id", c.ID), slog.Any("error", err))
			continue
		}
		summary.Scored[profile.RiskLevel]++
		if profile.RiskLevel == risk.LevelHigh && warned < maxWarnings {
			warned++
			j.logger().Warn("high risk customer",
				slog.Int64("customer_id", c.ID),
				slog.Int("risk_score", profile.RiskScore),
			)
		}
	}
	for level, n := range summary.Scored {
		j.metrics().AddReviewed(string(level), n)
	}
	return summary, nil
}

func (j *RiskSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRiskSweep))
	}
	return slog.Default().With(slog.String("job", TaskRiskSweep))
}

func (j *RiskSweepJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
