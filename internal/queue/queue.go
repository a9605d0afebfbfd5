package queue

import (
	"context"
	"sync"

	"solanaSniper/internal/model"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 5000

// Queue is a bounded FIFO hand-off between one producer and one consumer.
// Put blocks while the queue is full. Close may only be called by the
// producer side, after its last Put.
type Queue struct {
	ch        chan model.Event
	closeOnce sync.Once
}

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan model.Event, capacity)}
}

// Put enqueues ev, waiting for room. It fails only if ctx is done first.
func (q *Queue) Put(ctx context.Context, ev model.Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get dequeues the oldest event. ok is false once the queue has been closed
// and every buffered event has been returned.
func (q *Queue) Get(ctx context.Context) (model.Event, bool, error) {
	select {
	case ev, ok := <-q.ch:
		return ev, ok, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.ch)
	})
}

func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) Cap() int {
	return cap(q.ch)
}
