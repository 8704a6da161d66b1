package loadtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/mergington/pkg/logger"
)

// duplicateEvery sends every n-th signup twice.
const duplicateEvery = 5

// Run executes the complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("loadtest")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting roster load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("workers", cfg.Workers))

	if err := client.health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	before, err := client.list(ctx)
	if err != nil {
		return nil, err
	}
	if len(before) == 0 {
		return nil, errors.New("service lists no activities")
	}

	signups := generateSignups(ctx, before, cfg.Students)

	// every duplicateEvery-th student is submitted twice concurrently
	var work []Signup
	for i, s := range signups {
		work = append(work, s)
		if i%duplicateEvery == 0 {
			work = append(work, s)
		}
	}

	var accepted sync.Map
	counts := submit(ctx, cfg, work, func(s Signup) outcome {
		o := client.roster(ctx, "signup", s)
		if o == outcomeAccepted {
			accepted.Store(s.Email, s)
		}
		if cfg.Verbose {
			log.Debug(ctx, "signup", logger.String("activity", s.Activity), logger.String("email", s.Email), logger.Int("outcome", int(o)))
		}
		return o
	})
	stats.Attempted = len(work)
	stats.Accepted = counts[outcomeAccepted]
	stats.Duplicates = counts[outcomeDuplicate]
	stats.Rejected = counts[outcomeRejected]
	stats.Failed = counts[outcomeFailed]

	after, err := client.list(ctx)
	if err != nil {
		return nil, err
	}

	var acceptedList []Signup
	accepted.Range(func(_, v any) bool {
		acceptedList = append(acceptedList, v.(Signup))
		return true
	})
	if err := verifyRoster(before, after, acceptedList); err != nil {
		return stats, fmt.Errorf("roster verification failed: %w", err)
	}
	log.Info(ctx, "roster verified", logger.Int("accepted", len(acceptedList)))

	if cfg.Cleanup {
		removed := submit(ctx, cfg, acceptedList, func(s Signup) outcome {
			return client.roster(ctx, "unregister", s)
		})
		stats.Unregistered = removed[outcomeAccepted]

		final, err := client.list(ctx)
		if err != nil {
			return stats, err
		}
		if err := verifyRestored(before, final); err != nil {
			return stats, fmt.Errorf("cleanup verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	if stats.Duration > 0 {
		stats.RequestsPerSec = float64(stats.Attempted+stats.Unregistered) / stats.Duration.Seconds()
	}
	displayFinalStats(ctx, stats)
	return stats, nil
}

// submit fans work out over cfg.Workers goroutines and tallies outcomes.
func submit(ctx context.Context, cfg *Config, work []Signup, do func(Signup) outcome) map[outcome]int {
	var tally [outcomeFailed + 1]atomic.Int64

	ch := make(chan Signup, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range ch {
				tally[do(s)].Add(1)
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, s := range work {
			select {
			case <-ctx.Done():
				return
			case ch <- s:
			}
		}
	}()
	wg.Wait()

	out := make(map[outcome]int, len(tally))
	for o := range tally {
		out[outcome(o)] = int(tally[o].Load())
	}
	return out
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("attempted", stats.Attempted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("unregistered", stats.Unregistered),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", stats.RequestsPerSec))
}
