package api

import (
	"net/http"
	"strings"

	"github.com/okian/mergington/pkg/logger"
)

// ActivitiesHandler serves the activity directory routes.
type ActivitiesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies, l logger.Logger) *ActivitiesHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &ActivitiesHandler{deps: deps, logger: l}
}

// HandleList handles GET /activities requests.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	dir, err := h.deps.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dir)
}

// HandleSignup handles POST /activities/{name}/signup?email= requests.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	name, email, ok := h.target(w, r)
	if !ok {
		return
	}
	msg, err := h.deps.Signup(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// HandleUnregister handles POST /activities/{name}/unregister?email= requests.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	name, email, ok := h.target(w, r)
	if !ok {
		return
	}
	msg, err := h.deps.Unregister(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// target extracts the decoded activity name and the email query parameter.
func (h *ActivitiesHandler) target(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		h.fail(w, r, ErrMissingEmail)
		return "", "", false
	}
	return r.PathValue("name"), email, true
}

func (h *ActivitiesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err))
	}
	writeError(w, status, detail)
}
