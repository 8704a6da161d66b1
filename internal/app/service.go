// Package service wires the activity store, the roster event queue and the
// notifier pool behind the operations the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/mergington/internal/adapters/mq/queue"
	workerpool "github.com/okian/mergington/internal/adapters/mq/worker"
	"github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
	"github.com/okian/mergington/pkg/metrics"
)

const (
	defaultQueueSize   = 1024
	defaultWorkerCount = 2

	opSignup     = "signup"
	opUnregister = "unregister"
	opList       = "list"
)

// Stats is the snapshot served by GET /stats.
type Stats struct {
	Started       bool   `json:"started"`
	Backend       string `json:"backend"`
	Activities    int    `json:"activities"`
	Participants  int    `json:"participants"`
	QueueLength   int    `json:"queue_length"`
	EventsDropped uint64 `json:"events_dropped"`
}

// Service implements the API dependencies for the activities directory.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	events   *eventqueue.InMemoryQueue
	pool     *workerpool.Pool
	notifier workerpool.Notifier

	queueSize   int
	workerCount int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the roster event queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of notifier workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithNotifier replaces the default log notifier.
func WithNotifier(n workerpool.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over store. The service owns store from here on
// and closes it in Stop.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = workerpool.NewLogNotifier(s.logger)
	}
	return s
}

// Start creates the event queue and starts the notifier pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting activities service...")

	dir, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("initial list: %w", err)
	}
	metrics.SetActivities(len(dir))
	for name, a := range dir {
		metrics.SetParticipants(name, len(a.Participants))
	}

	s.events = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.events, s.notifier, workerpool.WithPoolLogger(s.logger))
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "activities service started",
		logger.String("backend", s.store.Backend()),
		logger.Int("activities", len(dir)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains the notifier pool and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping activities service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "activities service stopped")
	return errors.Join(errs...)
}

// List returns a copy of the whole directory.
func (s *Service) List(ctx context.Context) (model.Directory, error) {
	start := time.Now()
	dir, err := s.store.List(ctx)
	s.observe(opList, start)
	if err != nil {
		metrics.RecordErrorByComponent("store", opList)
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return dir, nil
}

// Signup registers email for the named activity and returns the confirmation message.
func (s *Service) Signup(ctx context.Context, name, email string) (string, error) {
	start := time.Now()
	count, err := s.store.Signup(ctx, name, email)
	s.observe(opSignup, start)
	metrics.RecordSignup(activityLabel(name, err), resultOf(err))
	if err != nil {
		return "", err
	}

	s.publish(ctx, model.RosterSignedUp, name, email, count)
	return model.SignupMessage(name, email), nil
}

// Unregister removes email from the named activity and returns the confirmation message.
func (s *Service) Unregister(ctx context.Context, name, email string) (string, error) {
	start := time.Now()
	count, err := s.store.Unregister(ctx, name, email)
	s.observe(opUnregister, start)
	metrics.RecordUnregister(activityLabel(name, err), resultOf(err))
	if err != nil {
		return "", err
	}

	s.publish(ctx, model.RosterUnregistered, name, email, count)
	return model.UnregisterMessage(name, email), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Started:    s.started,
		Backend:    s.store.Backend(),
		Activities: s.store.Count(ctx),
	}
	if dir, err := s.store.List(ctx); err == nil {
		stats.Participants = dir.Participants()
	} else {
		s.logger.Warn(ctx, "stats: list failed", logger.Error(err))
	}
	if s.events != nil {
		stats.QueueLength = s.events.Len(ctx)
		stats.EventsDropped = s.events.Dropped()
	}

	metrics.SetActivities(stats.Activities)
	return stats
}

func (s *Service) publish(ctx context.Context, kind model.RosterEventKind, name, email string, participants int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		metrics.SetParticipants(name, participants)
		return
	}

	e := model.RosterEvent{
		ID:           uuid.NewString(),
		Kind:         kind,
		Activity:     name,
		Email:        email,
		Participants: participants,
		At:           time.Now(),
	}
	if err := s.events.Enqueue(ctx, e); err != nil {
		// the roster change itself already happened
		metrics.SetParticipants(name, participants)
		s.logger.Warn(ctx, "roster event dropped",
			logger.String("kind", string(kind)),
			logger.String("activity", name),
			logger.Error(err))
	}
}

func (s *Service) observe(op string, start time.Time) {
	metrics.RecordStoreLatency(s.store.Backend(), op, float64(time.Since(start).Microseconds())/1000)
}

// activityLabel keeps unknown names out of metric labels.
func activityLabel(name string, err error) string {
	if errors.Is(err, model.ErrActivityNotFound) {
		return metrics.UnknownActivity
	}
	return name
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, model.ErrActivityNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, model.ErrAlreadySignedUp):
		return metrics.ResultDuplicate
	case errors.Is(err, model.ErrNotSignedUp):
		return metrics.ResultNotMember
	case errors.Is(err, model.ErrActivityFull):
		return metrics.ResultFull
	default:
		return metrics.ResultError
	}
}
