package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/mergington/internal/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		dir := catalog.Default()

		Convey("Then it should contain the well-known activities", func() {
			for _, name := range []string{"Chess Club", "Programming Class", "Gym Class", "Basketball Team", "Tennis Club", "Drama Club"} {
				_, ok := dir[name]
				So(ok, ShouldBeTrue)
			}
		})

		Convey("Then every activity should be valid and within capacity", func() {
			for name, a := range dir {
				So(a.Validate(name), ShouldBeNil)
				So(len(a.Participants), ShouldBeLessThanOrEqualTo, a.MaxParticipants)
			}
		})

		Convey("Then each call should return an independent copy", func() {
			other := catalog.Default()
			other["Chess Club"].Participants[0] = "changed@mergington.edu"
			So(dir["Chess Club"].Participants[0], ShouldEqual, "michael@mergington.edu")
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog loader", t, func() {
		Convey("When the path is empty", func() {
			dir, err := catalog.Load(ctx, "")

			Convey("Then the built-in catalog should be returned", func() {
				So(err, ShouldBeNil)
				So(dir, ShouldContainKey, "Chess Club")
			})
		})

		Convey("When the file is valid", func() {
			path := writeCatalog(t, `
activities:
  - name: Robotics Club
    description: Build and program robots
    schedule: Saturdays, 10:00 AM - 12:00 PM
    max_participants: 8
    participants:
      - ada@mergington.edu
  - name: Choir.Advanced
    description: Sing with the advanced choir
    schedule: Mondays, 3:30 PM - 4:30 PM
    max_participants: 40
`)
			dir, err := catalog.Load(ctx, path)

			Convey("Then every activity should be loaded as written", func() {
				So(err, ShouldBeNil)
				So(len(dir), ShouldEqual, 2)
				So(dir["Robotics Club"].MaxParticipants, ShouldEqual, 8)
				So(dir["Robotics Club"].Participants, ShouldResemble, []string{"ada@mergington.edu"})
				So(dir["Choir.Advanced"].Participants, ShouldNotBeNil)
				So(dir["Choir.Advanced"].Participants, ShouldBeEmpty)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := catalog.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			Convey("Then a load error should be returned", func() {
				So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
			})
		})

		Convey("When a capacity is not positive", func() {
			path := writeCatalog(t, `
activities:
  - name: Chess Club
    description: Chess
    schedule: Fridays
    max_participants: 0
`)
			_, err := catalog.Load(ctx, path)

			Convey("Then schema validation should reject it", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "max_participants")
			})
		})

		Convey("When a participant is listed twice", func() {
			path := writeCatalog(t, `
activities:
  - name: Chess Club
    description: Chess
    schedule: Fridays
    max_participants: 5
    participants: [a@mergington.edu, a@mergington.edu]
`)
			_, err := catalog.Load(ctx, path)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When an activity is listed twice", func() {
			path := writeCatalog(t, `
activities:
  - name: Chess Club
    description: Chess
    schedule: Fridays
    max_participants: 5
  - name: Chess Club
    description: Chess again
    schedule: Mondays
    max_participants: 5
`)
			_, err := catalog.Load(ctx, path)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "listed twice")
			})
		})

		Convey("When seeded participants exceed capacity", func() {
			path := writeCatalog(t, `
activities:
  - name: Chess Club
    description: Chess
    schedule: Fridays
    max_participants: 1
    participants: [a@mergington.edu, b@mergington.edu]
`)
			_, err := catalog.Load(ctx, path)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "capacity")
			})
		})

		Convey("When an unknown field is present", func() {
			path := writeCatalog(t, `
activities:
  - name: Chess Club
    description: Chess
    schedule: Fridays
    max_participants: 5
    room: 101
`)
			_, err := catalog.Load(ctx, path)

			Convey("Then schema validation should reject it", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})
	})
}
