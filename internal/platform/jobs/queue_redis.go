package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list the worker consumes.
const DefaultQueueKey = "jobs:reports"

// Queue is a Redis list used as a FIFO job queue.
// Producers LPUSH, the worker BRPOPs.
type Queue struct {
	rdb *redis.Client
	key string
}

// NewQueue creates a Queue on the given Redis client.
// If key is empty, DefaultQueueKey is used.
func NewQueue(rdb *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &Queue{rdb: rdb, key: key}
}

// ErrQueueUnavailable is returned when no Redis connection backs the queue.
var ErrQueueUnavailable = errors.New("job queue unavailable")

// Enqueue pushes one job onto the queue.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	if q.rdb == nil {
		return ErrQueueUnavailable
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.rdb.LPush(ctx, q.key, payload).Err()
}

// Dequeue blocks up to timeout for the next job.
// It returns (nil, nil) when the timeout elapses with an empty queue,
// so the worker loop can check for shutdown between polls.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPOPは [key, value] のペアを返す
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected brpop reply of length %d", len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}
