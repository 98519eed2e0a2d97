package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/customer-profile/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRiskReview re-scores a single customer after an accepted update.
	TaskRiskReview = "customer:risk_review"
	// TaskRiskSweep re-scores every customer on a schedule.
	TaskRiskSweep = "customer:risk_sweep"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// RiskReviewPayload identifies the customer to review.
type RiskReviewPayload struct {
	CustomerID int64     `json:"customer_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewRiskReviewTask constructs an Asynq task.
func NewRiskReviewTask(payload RiskReviewPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRiskReview, data), nil
}

// RiskSweepPayload limits how many customers a sweep logs individually.
type RiskSweepPayload struct {
	MaxWarnings int `json:"max_warnings"`
}

func NewRiskSweepTask(payload RiskSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRiskSweep, data), nil
}
