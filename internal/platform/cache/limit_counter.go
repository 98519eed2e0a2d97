package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const counterOpTimeout = 500 * time.Millisecond

// LimitCounter stores httprate sliding-window counters in Redis so every
// replica shares the same request budget.
type LimitCounter struct {
	client       redis.Cmdable
	prefix       string
	windowLength time.Duration
}

// NewLimitCounter returns a counter whose keys start with prefix.
func NewLimitCounter(client redis.Cmdable, prefix string) *LimitCounter {
	if prefix == "" {
		prefix = "httprate"
	}
	return &LimitCounter{client: client, prefix: prefix, windowLength: time.Minute}
}

// Config is called once by httprate with the limiter settings.
func (c *LimitCounter) Config(_ int, windowLength time.Duration) {
	c.windowLength = windowLength
}

func (c *LimitCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *LimitCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), counterOpTimeout)
	defer cancel()

	k := c.windowKey(key, currentWindow)
	// Keep the previous window readable for the sliding estimate.
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, k, int64(amount))
		pipe.Expire(ctx, k, 3*c.windowLength)
		return nil
	})
	if err != nil {
		return fmt.Errorf("platform/cache: increment %s: %w", k, err)
	}
	return nil
}

func (c *LimitCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), counterOpTimeout)
	defer cancel()

	values, err := c.client.MGet(ctx, c.windowKey(key, currentWindow), c.windowKey(key, previousWindow)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("platform/cache: get %s: %w", key, err)
	}
	curr, err := counterValue(values[0])
	if err != nil {
		return 0, 0, err
	}
	prev, err := counterValue(values[1])
	if err != nil {
		return 0, 0, err
	}
	return curr, prev, nil
}

func (c *LimitCounter) windowKey(key string, window time.Time) string {
	return fmt.Sprintf("%s:%d:%s", c.prefix, window.Unix(), key)
}

func counterValue(v any) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("platform/cache: counter value %q: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("platform/cache: unexpected counter type %T", v)
	}
}
