package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a mux with the site registered", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		serve := func(method, path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
			return w
		}

		Convey("Then /static/index.html is served as HTML", func() {
			w := serve(http.MethodGet, "/static/index.html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "Mergington High School")
		})

		Convey("And the script and stylesheet are served", func() {
			js := serve(http.MethodGet, "/static/app.js")
			So(js.Code, ShouldEqual, http.StatusOK)
			So(js.Body.String(), ShouldContainSubstring, "/activities")

			css := serve(http.MethodGet, "/static/styles.css")
			So(css.Code, ShouldEqual, http.StatusOK)
			So(css.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})

		Convey("And unknown files are 404", func() {
			So(serve(http.MethodGet, "/static/missing.js").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And the root path is left to other handlers", func() {
			So(serve(http.MethodGet, "/").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Register panics on a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestFS(t *testing.T) {
	Convey("The embedded filesystem holds the frontend", t, func() {
		for _, name := range []string{"index.html", "app.js", "styles.css"} {
			f, err := FS().Open("/" + name)
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)
		}
	})
}
