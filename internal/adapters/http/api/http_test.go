package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/mergington/internal/adapters/http/api"
	"github.com/okian/mergington/internal/adapters/repository"
	service "github.com/okian/mergington/internal/app"
	"github.com/okian/mergington/internal/catalog"
	"github.com/okian/mergington/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type brokenDeps struct{}

func (brokenDeps) List(context.Context) (model.Directory, error) {
	return nil, errors.New("redis: connection refused")
}

func (brokenDeps) Signup(context.Context, string, string) (string, error) {
	return "", errors.New("redis: connection refused")
}

func (brokenDeps) Unregister(context.Context, string, string) (string, error) {
	return "", errors.New("redis: connection refused")
}

func newTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	store, err := repository.NewMemoryStore(context.Background(), catalog.Default())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc := service.New(store)

	mux := http.NewServeMux()
	srv := api.NewServer(svc, api.StatsFunc(func(ctx context.Context) any { return svc.GetStats(ctx) }))
	srv.Register(context.Background(), mux)

	ts := httptest.NewServer(srv.Handler(mux))
	t.Cleanup(ts.Close)
	return ts, svc
}

func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
}

func post(t *testing.T, url string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url, "", http.NoBody)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	body := map[string]string{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func listActivities(t *testing.T, base string) model.Directory {
	t.Helper()
	resp, err := http.Get(base + "/activities")
	if err != nil {
		t.Fatalf("get activities: %v", err)
	}
	defer resp.Body.Close()
	var dir model.Directory
	if err := json.NewDecoder(resp.Body).Decode(&dir); err != nil {
		t.Fatalf("decode activities: %v", err)
	}
	return dir
}

func TestGetActivities(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts, _ := newTestServer(t)

		Convey("GET /activities returns every activity with the required fields", func() {
			resp, err := http.Get(ts.URL + "/activities")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "application/json")

			var raw map[string]map[string]any
			So(json.NewDecoder(resp.Body).Decode(&raw), ShouldBeNil)
			So(len(raw), ShouldBeGreaterThan, 0)
			So(raw, ShouldContainKey, "Chess Club")
			for _, a := range raw {
				So(a, ShouldContainKey, "description")
				So(a, ShouldContainKey, "schedule")
				So(a, ShouldContainKey, "max_participants")
				So(a, ShouldContainKey, "participants")
				_, isList := a["participants"].([]any)
				So(isList, ShouldBeTrue)
			}
		})

		Convey("Wrong method is rejected", func() {
			resp, err := http.Post(ts.URL+"/activities", "", http.NoBody)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSignup(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts, _ := newTestServer(t)

		Convey("A new participant is signed up", func() {
			resp, body := post(t, ts.URL+"/activities/Chess%20Club/signup?email=newstudent@mergington.edu")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["message"], ShouldEqual, "Signed up newstudent@mergington.edu for Chess Club")
		})

		Convey("An unknown activity is 404", func() {
			resp, body := post(t, ts.URL+"/activities/Nonexistent%20Activity/signup?email=student@mergington.edu")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["detail"], ShouldEqual, "Activity not found")
		})

		Convey("A duplicate signup is 400", func() {
			url := ts.URL + "/activities/Tennis%20Club/signup?email=duplicate@mergington.edu"
			first, _ := post(t, url)
			So(first.StatusCode, ShouldEqual, http.StatusOK)

			second, body := post(t, url)
			So(second.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["detail"], ShouldContainSubstring, "already signed up")
		})

		Convey("Signup adds the participant to the list", func() {
			resp, _ := post(t, ts.URL+"/activities/Drama%20Club/signup?email=testparticipant@mergington.edu")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(listActivities(t, ts.URL)["Drama Club"].Participants, ShouldContain, "testparticipant@mergington.edu")
		})

		Convey("A missing email is 422", func() {
			resp, body := post(t, ts.URL+"/activities/Chess%20Club/signup")
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
			So(body["detail"], ShouldEqual, "email query parameter is required")
		})

		Convey("The email is not validated", func() {
			resp, _ := post(t, ts.URL+"/activities/Chess%20Club/signup?email=not-an-email")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("GET on the signup route is 405", func() {
			resp, err := http.Get(ts.URL + "/activities/Chess%20Club/signup?email=a@mergington.edu")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestUnregister(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts, _ := newTestServer(t)

		Convey("A registered participant is removed", func() {
			signup, _ := post(t, ts.URL+"/activities/Basketball%20Team/signup?email=unregister_test@mergington.edu")
			So(signup.StatusCode, ShouldEqual, http.StatusOK)

			resp, body := post(t, ts.URL+"/activities/Basketball%20Team/unregister?email=unregister_test@mergington.edu")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["message"], ShouldStartWith, "Unregistered")
			So(listActivities(t, ts.URL)["Basketball Team"].Participants, ShouldNotContain, "unregister_test@mergington.edu")
		})

		Convey("An unknown activity is 404", func() {
			resp, body := post(t, ts.URL+"/activities/Nonexistent%20Activity/unregister?email=student@mergington.edu")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["detail"], ShouldEqual, "Activity not found")
		})

		Convey("A participant who is not signed up is 400", func() {
			resp, body := post(t, ts.URL+"/activities/Programming%20Class/unregister?email=notregistered@mergington.edu")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["detail"], ShouldContainSubstring, "not signed up")
		})
	})
}

func TestRootAndOperational(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts, _ := newTestServer(t)

		Convey("GET / redirects to the frontend with 307", func() {
			resp, err := noRedirect().Get(ts.URL + "/")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusTemporaryRedirect)
			So(resp.Header.Get("Location"), ShouldContainSubstring, "/static/index.html")
		})

		Convey("GET /healthz reports ok", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			var body map[string]string
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("GET /stats reports the backend", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["backend"], ShouldEqual, "memory")
			So(body["activities"], ShouldEqual, 9.0)
		})

		Convey("GET /metrics exposes the namespace", func() {
			_, _ = post(t, ts.URL+"/activities/Chess%20Club/signup?email=metrics@mergington.edu")
			resp, err := http.Get(ts.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, "mergington_")
		})

		Convey("Responses carry a request id", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.Header.Get(api.RequestIDHeader), ShouldNotBeEmpty)

			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "fixed-id")
			resp, err = http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.Header.Get(api.RequestIDHeader), ShouldEqual, "fixed-id")
		})
	})
}

func TestBackendFailure(t *testing.T) {
	Convey("Given dependencies that fail", t, func() {
		mux := http.NewServeMux()
		api.NewServer(brokenDeps{}, nil).Register(context.Background(), mux)

		for _, c := range []struct{ method, path string }{
			{http.MethodGet, "/activities"},
			{http.MethodPost, "/activities/Chess%20Club/signup?email=a@mergington.edu"},
			{http.MethodPost, "/activities/Chess%20Club/unregister?email=a@mergington.edu"},
		} {
			Convey(c.method+" "+c.path+" is a 500 without internals", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(c.method, c.path, http.NoBody))
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "Internal server error")
				So(w.Body.String(), ShouldNotContainSubstring, "redis")
			})
		}
	})
}
