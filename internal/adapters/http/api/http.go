// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/rvcalc/internal/app"
	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/okian/rvcalc/internal/domain/scoring"
	"github.com/okian/rvcalc/pkg/logger"
)

// maxBodyBytes caps request bodies; a report is a few hundred bytes.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the session implementation.
type Dependencies interface {
	StatsProvider

	Initialize(ctx context.Context, baseline *model.Profile) error
	Upsert(ctx context.Context, r *model.Report) error
	ProjectedAggregate(ctx context.Context, candidate *model.Report) (scoring.Result, error)
	Reset(ctx context.Context)

	ActiveProfile() (model.Profile, bool)
	BaselineProfile() (model.Profile, bool)
	Reports() []*model.Report
	Find(name string) (*model.Report, bool)
	MaxReportCount() int
}

// Server wires HTTP routes for the session API.
type Server struct {
	deps   Dependencies
	logger logger.Logger

	preciseBaseline bool
	projectionRPS   float64
	projectionBurst int

	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	profileHandler    *ProfileHandler
	reportsHandler    *ReportsHandler
	projectionHandler *ProjectionHandler
	sessionHandler    *SessionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		deps:            deps,
		preciseBaseline: true,
		projectionRPS:   defaultProjectionRPS,
		projectionBurst: defaultProjectionBurst,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.profileHandler = NewProfileHandler(deps, s.logger, s.preciseBaseline)
	s.reportsHandler = NewReportsHandler(deps, s.logger)
	s.projectionHandler = NewProjectionHandler(deps, s.logger, s.projectionRPS, s.projectionBurst)
	s.sessionHandler = NewSessionHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /profile", MetricsMiddleware(s.profileHandler.HandleInitialize, "profile"))
	mux.HandleFunc("GET /profile", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))

	mux.HandleFunc("PUT /reports", MetricsMiddleware(s.reportsHandler.HandleUpsert, "reports"))
	mux.HandleFunc("GET /reports", MetricsMiddleware(s.reportsHandler.HandleList, "reports"))
	mux.HandleFunc("GET /reports/{name}", MetricsMiddleware(s.reportsHandler.HandleGet, "report"))

	mux.HandleFunc("POST /projection", MetricsMiddleware(s.projectionHandler.HandleProject, "projection"))

	mux.HandleFunc("DELETE /session", MetricsMiddleware(s.sessionHandler.HandleReset, "session"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status code and writes it. Unexpected errors
// are logged.
func writeFailure(ctx context.Context, w http.ResponseWriter, l logger.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidArgument),
		errors.Is(err, score.ErrInvalidLetter):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict), errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
