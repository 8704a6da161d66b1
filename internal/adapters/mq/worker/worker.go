// Package worker delivers roster events off the queue to a Notifier.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
	"github.com/okian/mergington/pkg/metrics"
)

// Event is what workers read off the queue.
type Event = model.RosterEvent

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes roster events.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called
	// or the queue is closed and drained.
	Run(ctx context.Context)

	// Shutdown stops the worker without draining the queue.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for a single goroutine.
type InMemoryWorker struct {
	queue    Queue
	notifier Notifier
	name     string

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from queue.
func NewInMemoryWorker(queue Queue, notifier Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		notifier: notifier,
		name:     "worker",
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error delivering roster event", logger.Error(err))
			}
		}
	}
}

// Shutdown signals the worker to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) processEvent(ctx context.Context, event Event) error { //nolint:gocritic // hugeParam: Event is passed by value off the channel
	metrics.SetParticipants(event.Activity, event.Participants)

	if err := w.notifier.Notify(ctx, event); err != nil {
		metrics.RecordNotifierError()
		metrics.RecordErrorByComponent("notifier", "notify_failed")
		return fmt.Errorf("notify %s: %w", event.ID, err)
	}

	if !event.At.IsZero() {
		metrics.RecordEventDelivered(float64(time.Since(event.At).Milliseconds()))
	} else {
		metrics.RecordEventDelivered(0)
	}
	return nil
}

// Pool manages several workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates workerCount workers. At least one worker is always created.
func NewPool(workerCount int, queue Queue, notifier Notifier, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("worker_pool")

	for i := range workerCount {
		p.workers[i] = NewInMemoryWorker(queue, notifier,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
		)
	}

	metrics.SetNotifierWorkers(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
// When ctx expires first the workers are stopped and the remaining events are lost.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			for _, rest := range p.workers {
				rest.stopOnce.Do(func() { close(rest.stop) })
			}
			metrics.SetNotifierWorkers(0)
			return fmt.Errorf("pool shutdown: %w", ctx.Err())
		}
	}

	metrics.SetNotifierWorkers(0)
	return nil
}
