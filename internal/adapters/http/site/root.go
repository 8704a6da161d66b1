// Package site serves the embedded browser frontend under /static/.
package site

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// Prefix is the URL path the frontend is mounted under.
const Prefix = "/static/"

// Register attaches the embedded frontend routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// FileServer would redirect .../index.html to the directory, so the page is served directly.
	mux.HandleFunc("GET "+Prefix+"index.html", serveIndex)
	mux.Handle("GET "+Prefix, http.StripPrefix(Prefix, http.FileServer(FS())))
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := indexPage()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(page))
}
