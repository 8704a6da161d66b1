package loadtest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/mergington/internal/domain/model"
)

// verifyRoster checks that every accepted signup appears exactly once in its
// activity, that no email appears twice anywhere, and that pre-existing
// participants kept their order.
func verifyRoster(before, after model.Directory, accepted []Signup) error {
	for name, a := range after {
		seen := make(map[string]struct{}, len(a.Participants))
		for _, p := range a.Participants {
			if _, dup := seen[p]; dup {
				return fmt.Errorf("%q lists %s twice", name, p)
			}
			seen[p] = struct{}{}
		}

		prev := before[name].Participants
		if len(a.Participants) < len(prev) || !slices.Equal(a.Participants[:len(prev)], prev) {
			return fmt.Errorf("%q lost or reordered existing participants", name)
		}
	}

	for _, s := range accepted {
		if !after[s.Activity].Has(s.Email) {
			return fmt.Errorf("accepted signup %s missing from %q", s.Email, s.Activity)
		}
	}

	synthetic := 0
	for _, a := range after {
		for _, p := range a.Participants {
			if strings.HasSuffix(p, "@"+emailDomain) {
				synthetic++
			}
		}
	}
	baseline := 0
	for _, a := range before {
		for _, p := range a.Participants {
			if strings.HasSuffix(p, "@"+emailDomain) {
				baseline++
			}
		}
	}
	if got := synthetic - baseline; got != len(accepted) {
		return fmt.Errorf("expected %d new synthetic participants, found %d", len(accepted), got)
	}
	return nil
}

// verifyRestored checks that every roster matches its state before the run.
func verifyRestored(before, after model.Directory) error {
	for name, a := range before {
		if !slices.Equal(after[name].Participants, a.Participants) {
			return fmt.Errorf("%q was not restored: want %d participants, have %d",
				name, len(a.Participants), len(after[name].Participants))
		}
	}
	return nil
}
