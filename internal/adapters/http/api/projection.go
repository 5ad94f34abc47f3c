package api

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/rvcalc/pkg/logger"
	"github.com/okian/rvcalc/pkg/metrics"
)

// ProjectionHandler previews the effect of an uncommitted report.
type ProjectionHandler struct {
	deps    Dependencies
	logger  logger.Logger
	limiter *rate.Limiter
}

// NewProjectionHandler creates a projection handler allowing rps requests per
// second with the given burst.
func NewProjectionHandler(deps Dependencies, l logger.Logger, rps float64, burst int) *ProjectionHandler {
	return &ProjectionHandler{
		deps:    deps,
		logger:  l,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// HandleProject handles POST /projection requests.
func (h *ProjectionHandler) HandleProject(w http.ResponseWriter, r *http.Request) {
	const op = "api.project_report"
	if !h.limiter.Allow() {
		metrics.RecordRateLimited("projection")
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrRateLimited))
		return
	}

	baseline, ok := h.deps.BaselineProfile()
	if !ok {
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrConflict))
		return
	}

	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	candidate, err := req.toReport(baseline.Rank)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.ProjectedAggregate(r.Context(), candidate)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, projectionResponse{Profile: res.Profile, Reports: res.RVs})
}
