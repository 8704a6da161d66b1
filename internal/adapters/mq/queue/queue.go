// Package queue carries roster events from the request path to the notifiers.
//
// Publishing never blocks a request: when the buffer is full the event is
// dropped and counted.
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Event is the payload flowing through the queue.
type Event = model.RosterEvent

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an event. Returns ErrQueueFull or ErrQueueClosed without blocking.
	Enqueue(ctx context.Context, e Event) error

	// Dequeue returns the receive side of the queue. It is closed by Close.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued events.
	Len(ctx context.Context) int

	// Dropped returns how many events were rejected so far.
	Dropped() uint64

	// Close stops accepting events. Buffered events stay readable.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int
	dropped  atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueue(0, q.capacity)
	return q
}

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: passed by value into the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop("closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		q.drop("context_cancelled")
		return err
	}

	select {
	case q.events <- e:
		metrics.RecordEventPublished()
		metrics.UpdateQueue(len(q.events), q.capacity)
		return nil
	default:
		q.drop("queue_full")
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) drop(reason string) {
	q.dropped.Add(1)
	metrics.RecordEventDropped()
	metrics.RecordErrorByComponent("queue", reason)
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Event {
	return q.events
}

// Len returns the current number of queued events.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.events)
	metrics.UpdateQueue(size, q.capacity)
	return size
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Dropped returns how many events were rejected so far.
func (q *InMemoryQueue) Dropped() uint64 { return q.dropped.Load() }

// Close stops accepting events. Safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
