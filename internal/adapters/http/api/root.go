package api

import "net/http"

// IndexPath is where the browser frontend lives.
const IndexPath = "/static/index.html"

// RootHandler redirects the bare root to the frontend.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests with a 307.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}
