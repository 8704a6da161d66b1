// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Activity is one extracurricular offering. Participants keep signup order.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Directory maps activity name to its record.
type Directory map[string]Activity

// Clone returns a deep copy so callers never alias store-owned slices.
func (a Activity) Clone() Activity {
	c := a
	c.Participants = slices.Clone(a.Participants)
	if c.Participants == nil {
		c.Participants = []string{}
	}
	return c
}

// Has reports whether email is on the participant list.
func (a Activity) Has(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Full reports whether the activity reached its capacity.
func (a Activity) Full() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// Validate checks the invariants of a seeded activity.
func (a Activity) Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidActivity)
	}
	if a.MaxParticipants < 1 {
		return fmt.Errorf("%w: %q max_participants must be positive", ErrInvalidActivity, name)
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, p := range a.Participants {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: %q lists %s twice", ErrInvalidActivity, name, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// Clone deep-copies the directory.
func (d Directory) Clone() Directory {
	out := make(Directory, len(d))
	for name, a := range d {
		out[name] = a.Clone()
	}
	return out
}

// Names returns activity names in sorted order.
func (d Directory) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Participants counts participants across all activities.
func (d Directory) Participants() int {
	n := 0
	for _, a := range d {
		n += len(a.Participants)
	}
	return n
}

// SignupMessage is the confirmation returned after a signup.
func SignupMessage(name, email string) string {
	return fmt.Sprintf("Signed up %s for %s", email, name)
}

// UnregisterMessage is the confirmation returned after an unregister.
func UnregisterMessage(name, email string) string {
	return fmt.Sprintf("Unregistered %s from %s", email, name)
}
