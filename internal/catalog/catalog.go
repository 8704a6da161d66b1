// Package catalog provides the activity set the directory is seeded with.
//
// The set is fixed for the lifetime of the process: it comes either from the
// built-in Mergington High School catalog or from a YAML file.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/xeipuuv/gojsonschema"

	"github.com/okian/mergington/internal/domain/model"
)

// entry is one activity as written in a catalog file.
type entry struct {
	Name            string   `koanf:"name"`
	Description     string   `koanf:"description"`
	Schedule        string   `koanf:"schedule"`
	MaxParticipants int      `koanf:"max_participants"`
	Participants    []string `koanf:"participants"`
}

type document struct {
	Activities []entry `koanf:"activities"`
}

// Default returns a fresh copy of the built-in catalog.
func Default() model.Directory {
	return model.Directory{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Practice drills and compete in inter-school basketball games",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"liam@mergington.edu"},
		},
		"Tennis Club": {
			Description:     "Improve your serve and play singles and doubles matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"ava@mergington.edu"},
		},
		"Art Club": {
			Description:     "Explore painting, drawing and sculpture with guest artists",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"mia@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Rehearse and perform in the school plays and showcases",
			Schedule:        "Thursdays, 3:30 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"noah@mergington.edu", "isabella@mergington.edu"},
		},
		"Math Club": {
			Description:     "Solve challenging problems and prepare for math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"james@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Sharpen public speaking and argumentation in debate tournaments",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 14,
			Participants:    []string{"charlotte@mergington.edu", "benjamin@mergington.edu"},
		},
	}
}

// Load reads a YAML catalog from path. An empty path returns Default().
func Load(_ context.Context, path string) (model.Directory, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	if err := validateSchema(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	return build(doc.Activities)
}

func validateSchema(raw map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
}

func build(entries []entry) (model.Directory, error) {
	dir := make(model.Directory, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if _, dup := dir[name]; dup {
			return nil, fmt.Errorf("%w: activity %q listed twice", ErrInvalidCatalog, name)
		}
		a := model.Activity{
			Description:     e.Description,
			Schedule:        e.Schedule,
			MaxParticipants: e.MaxParticipants,
			Participants:    e.Participants,
		}.Clone()
		if err := a.Validate(name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
		if len(a.Participants) > a.MaxParticipants {
			return nil, fmt.Errorf("%w: activity %q seeds %d participants over a capacity of %d",
				ErrInvalidCatalog, name, len(a.Participants), a.MaxParticipants)
		}
		dir[name] = a
	}
	return dir, nil
}
