package loadtest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/mergington/internal/adapters/http/api"
	"github.com/okian/mergington/internal/adapters/repository"
	service "github.com/okian/mergington/internal/app"
	"github.com/okian/mergington/internal/catalog"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

func startService(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := repository.NewMemoryStore(context.Background(), catalog.Default())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc := service.New(store)
	mux := http.NewServeMux()
	api.NewServer(svc, nil).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun(t *testing.T) {
	Convey("Given a running activities service", t, func() {
		ts := startService(t)
		cfg := &Config{BaseURL: ts.URL, Students: 60, Workers: 8, Timeout: 5 * time.Second, Cleanup: true}

		Convey("When the load test runs", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every unique student is accepted once and duplicates are rejected", func() {
				So(err, ShouldBeNil)
				So(stats.Accepted, ShouldEqual, 60)
				So(stats.Duplicates, ShouldEqual, 12)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Unregistered, ShouldEqual, 60)
			})
		})
	})

	Convey("Given nothing listening", t, func() {
		cfg := &Config{BaseURL: "http://127.0.0.1:1", Students: 1, Workers: 1, Timeout: 100 * time.Millisecond}

		Convey("Then the health check fails", func() {
			_, err := Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestVerifyRoster(t *testing.T) {
	Convey("Given a directory before a run", t, func() {
		before := model.Directory{"Chess Club": {MaxParticipants: 10, Participants: []string{"a@mergington.edu"}}}
		s := Signup{Activity: "Chess Club", Email: "x@" + emailDomain}

		Convey("A correct roster passes", func() {
			after := model.Directory{"Chess Club": {Participants: []string{"a@mergington.edu", s.Email}}}
			So(verifyRoster(before, after, []Signup{s}), ShouldBeNil)
		})

		Convey("A duplicated email fails", func() {
			after := model.Directory{"Chess Club": {Participants: []string{"a@mergington.edu", s.Email, s.Email}}}
			So(verifyRoster(before, after, []Signup{s}), ShouldNotBeNil)
		})

		Convey("A missing accepted signup fails", func() {
			So(verifyRoster(before, before, []Signup{s}), ShouldNotBeNil)
		})

		Convey("Reordered existing participants fail", func() {
			after := model.Directory{"Chess Club": {Participants: []string{s.Email, "a@mergington.edu"}}}
			So(verifyRoster(before, after, []Signup{s}), ShouldNotBeNil)
		})

		Convey("Restoration compares whole rosters", func() {
			So(verifyRestored(before, before), ShouldBeNil)
			So(verifyRestored(before, model.Directory{"Chess Club": {}}), ShouldNotBeNil)
		})
	})
}

func TestParseFlags(t *testing.T) {
	Convey("ParseFlags applies defaults and overrides", t, func() {
		var out bytes.Buffer
		cfg, err := ParseFlags(nil, &out)
		So(err, ShouldBeNil)
		So(cfg.BaseURL, ShouldEqual, DefaultBaseURL)
		So(cfg.Students, ShouldEqual, DefaultStudents)
		So(cfg.Cleanup, ShouldBeTrue)

		cfg, err = ParseFlags([]string{"-students", "10", "-workers", "2", "-cleanup=false"}, &out)
		So(err, ShouldBeNil)
		So(cfg.Students, ShouldEqual, 10)
		So(cfg.Workers, ShouldEqual, 2)
		So(cfg.Cleanup, ShouldBeFalse)

		_, err = ParseFlags([]string{"-students", "0"}, &out)
		So(err, ShouldNotBeNil)
	})
}
