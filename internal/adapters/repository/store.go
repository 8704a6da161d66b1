// Package repository defines the activity directory store and its backends.
package repository

import (
	"context"

	"github.com/okian/mergington/internal/domain/model"
)

// Store owns the activity directory. The activity set is fixed once the store
// is built; only participant lists change.
type Store interface {
	// List returns a copy of every activity keyed by name.
	List(ctx context.Context) (model.Directory, error)

	// Signup appends email to the activity's participants and returns the new count.
	// Returns model.ErrActivityNotFound, model.ErrAlreadySignedUp or, with
	// capacity enforcement, model.ErrActivityFull.
	Signup(ctx context.Context, activity, email string) (int, error)

	// Unregister removes one occurrence of email and returns the remaining count.
	// Returns model.ErrActivityNotFound or model.ErrNotSignedUp.
	Unregister(ctx context.Context, activity, email string) (int, error)

	// Count returns the number of activities.
	Count(ctx context.Context) int

	// Backend names the implementation, e.g. "memory" or "redis".
	Backend() string

	// Close releases backend resources.
	Close() error
}
