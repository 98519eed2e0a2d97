package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/customer-profile/internal/jobs"
	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
	"github.com/odyssey-erp/customer-profile/internal/risk"
)

// ProfileSource computes the current profile of a stored customer.
type ProfileSource interface {
	ProfileFor(ctx context.Context, id int64) (*risk.Profile, error)
}

// RiskReviewJob re-scores a customer after an update and flags HIGH results.
type RiskReviewJob struct {
	Profiles ProfileSource
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

func NewRiskReviewJob(profiles ProfileSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *RiskReviewJob {
	return &RiskReviewJob{Profiles: profiles, Logger: logger, Metrics: metrics}
}

// Handle processes TaskRiskReview tasks. Customers that cannot be scored are
// not retried.
func (j *RiskReviewJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Profiles == nil {
		return errors.New("risk review: handler not configured")
	}
	var payload RiskReviewPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.CustomerID < 1 {
		return fmt.Errorf("risk review: bad payload: %w", asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskRiskReview)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int64("customer_id", payload.CustomerID))
	profile, err := j.Profiles.ProfileFor(ctx, payload.CustomerID)
	if err != nil {
		switch httpx.StatusFor(err) {
		case http.StatusNotFound, http.StatusUnprocessableEntity:
			logger.Warn("customer cannot be scored", slog.String("reason", httpx.Message(err)))
			return fmt.Errorf("risk review %d: %s: %w", payload.CustomerID, httpx.Message(err), asynq.SkipRetry)
		default:
			logger.Error("risk review failed", slog.Any("error", err))
			return err
		}
	}

	j.metrics().AddReviewed(string(profile.RiskLevel), 1)
	if profile.RiskLevel == risk.LevelHigh {
		logger.Warn("high risk customer after update",
			slog.Int("risk_score", profile.RiskScore),
			slog.Any("recommendations", profile.Recommendations),
		)
		return nil
	}
	logger.Info("risk review completed",
		slog.Int("risk_score", profile.RiskScore),
		slog.String("risk_level", string(profile.RiskLevel)),
	)
	return nil
}

func (j *RiskReviewJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRiskReview))
	}
	return slog.Default().With(slog.String("job", TaskRiskReview))
}

func (j *RiskReviewJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
