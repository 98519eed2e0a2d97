package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/customer-profile/internal/customers"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client submits jobs to the queue.
type Client struct {
	client enqueuer
	logger *slog.Logger
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt, logger *slog.Logger) *Client {
	return newClient(asynq.NewClient(redisOpts), logger)
}

func newClient(e enqueuer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{client: e, logger: logger}
}

// EnqueueRiskReview enqueues a review of customer id. Each call gets a fresh
// task ID so repeated updates are all reviewed.
func (c *Client) EnqueueRiskReview(ctx context.Context, payload RiskReviewPayload) (*asynq.TaskInfo, error) {
	task, err := NewRiskReviewTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.TaskID(uuid.NewString()),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
}

// CustomerUpdated implements customers.UpdateListener.
func (c *Client) CustomerUpdated(ctx context.Context, customer customers.Customer) error {
	info, err := c.EnqueueRiskReview(ctx, RiskReviewPayload{CustomerID: customer.ID, UpdatedAt: customer.UpdatedAt})
	if err != nil {
		return fmt.Errorf("enqueue risk review: %w", err)
	}
	c.logger.Debug("risk review enqueued", slog.Int64("customer_id", customer.ID), slog.String("task_id", info.ID))
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

