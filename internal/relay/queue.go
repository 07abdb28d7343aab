package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Queue is a bounded in-memory delivery queue. Deliveries are not persisted:
// work the process never got to is lost on shutdown, matching the
// fire-and-forget contract of the webhook ack.
type Queue struct {
	ch chan Delivery
}

// NewQueue creates a queue holding up to size pending deliveries.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan Delivery, size)}
}

// Enqueue adds a delivery without blocking. Returns ErrQueueFull when the
// buffer is exhausted; the webhook has already acked, so the caller can only
// log the drop.
func (q *Queue) Enqueue(ctx context.Context, req EnqueueRequest) (string, error) {
	if req.SpaceID == "" {
		return "", fmt.Errorf("space_id is empty")
	}

	d := Delivery{
		ID:         uuid.NewString(),
		SpaceID:    req.SpaceID,
		Query:      req.Query,
		ReceivedAt: time.Now().UTC(),
	}

	select {
	case q.ch <- d:
		return d.ID, nil
	default:
		return "", ErrQueueFull
	}
}

// Deliveries exposes the consumer side of the queue.
func (q *Queue) Deliveries() <-chan Delivery {
	return q.ch
}

// Depth returns the number of pending deliveries.
func (q *Queue) Depth() int {
	return len(q.ch)
}
