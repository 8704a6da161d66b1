package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/mergington/internal/domain/model"
)

// BackendMemory names the in-process backend.
const BackendMemory = "memory"

// slot guards one activity. Signups to different activities never contend.
type slot struct {
	mu       sync.Mutex
	activity model.Activity
}

// MemoryStore keeps the directory in process memory.
//
// The name -> slot map is built once and never written afterwards, so lookups
// need no directory-wide lock; each participant list has its own mutex.
type MemoryStore struct {
	slots map[string]*slot
	opts  options
}

// NewMemoryStore seeds a store from a copy of seed.
func NewMemoryStore(_ context.Context, seed model.Directory, opts ...Option) (*MemoryStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(seed) == 0 {
		return nil, ErrEmptyDirectory
	}

	s := &MemoryStore{slots: make(map[string]*slot, len(seed)), opts: o}
	for name, a := range seed {
		if err := a.Validate(name); err != nil {
			return nil, err
		}
		s.slots[name] = &slot{activity: a.Clone()}
	}
	return s, nil
}

// List returns a deep copy of the directory.
func (s *MemoryStore) List(_ context.Context) (model.Directory, error) {
	out := make(model.Directory, len(s.slots))
	for name, sl := range s.slots {
		sl.mu.Lock()
		out[name] = sl.activity.Clone()
		sl.mu.Unlock()
	}
	return out, nil
}

// Signup appends email to the named activity.
func (s *MemoryStore) Signup(_ context.Context, activity, email string) (int, error) {
	sl, ok := s.slots[activity]
	if !ok {
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrActivityNotFound)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.activity.Has(email) {
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrAlreadySignedUp)
	}
	if s.opts.enforceCapacity && sl.activity.Full() {
		return 0, fmt.Errorf("signup %q: %w", activity, model.ErrActivityFull)
	}
	sl.activity.Participants = append(sl.activity.Participants, email)
	return len(sl.activity.Participants), nil
}

// Unregister removes the first occurrence of email from the named activity.
func (s *MemoryStore) Unregister(_ context.Context, activity, email string) (int, error) {
	sl, ok := s.slots[activity]
	if !ok {
		return 0, fmt.Errorf("unregister %q: %w", activity, model.ErrActivityNotFound)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	i := slices.Index(sl.activity.Participants, email)
	if i < 0 {
		return 0, fmt.Errorf("unregister %q: %w", activity, model.ErrNotSignedUp)
	}
	sl.activity.Participants = slices.Delete(sl.activity.Participants, i, i+1)
	return len(sl.activity.Participants), nil
}

// Count returns the number of activities.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.slots)
}

// Backend returns BackendMemory.
func (s *MemoryStore) Backend() string { return BackendMemory }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
