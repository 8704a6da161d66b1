// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	List(ctx context.Context) (model.Directory, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	activitiesHandler *ActivitiesHandler
	rootHandler       *RootHandler
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	logger            logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and the access log.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("http")

	s.activitiesHandler = NewActivitiesHandler(deps, s.logger)
	s.rootHandler = NewRootHandler()
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("POST /activities/{name}/signup", MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup"))
	mux.HandleFunc("POST /activities/{name}/unregister", MetricsMiddleware(s.activitiesHandler.HandleUnregister, "unregister"))
}

// Handler wraps next with request ids and the access log.
func (s *Server) Handler(next http.Handler) http.Handler {
	return RequestIDMiddleware(AccessLogMiddleware(next, s.logger))
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
