package api

import (
	"net/http"

	"github.com/okian/rvcalc/internal/domain/model"
	"github.com/okian/rvcalc/internal/domain/score"
	"github.com/okian/rvcalc/pkg/logger"
)

// ProfileHandler handles baseline initialization and profile reads.
type ProfileHandler struct {
	deps    Dependencies
	logger  logger.Logger
	precise bool
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps Dependencies, l logger.Logger, precise bool) *ProfileHandler {
	return &ProfileHandler{deps: deps, logger: l, precise: precise}
}

// HandleInitialize handles POST /profile requests.
func (h *ProfileHandler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	const op = "api.initialize_profile"
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	baseline, err := model.NewProfile(req.Rank, req.High, req.Low, req.Avg, req.ReportCount,
		model.WithMaxReportCount(h.deps.MaxReportCount()))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if !score.IsKnownRank(baseline.Rank) {
		h.logger.Warn(r.Context(), "baseline rank is not a known rank",
			logger.String("rank", baseline.Rank))
	}
	if h.precise {
		baseline = preciseBaseline(baseline)
	}

	if err := h.deps.Initialize(r.Context(), baseline); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	if !h.writeProfiles(w, http.StatusCreated) {
		// reset by a concurrent request
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrConflict))
	}
}

// HandleGetProfile handles GET /profile requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if !h.writeProfiles(w, http.StatusOK) {
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrConflict))
	}
}

func (h *ProfileHandler) writeProfiles(w http.ResponseWriter, status int) bool {
	baseline, ok := h.deps.BaselineProfile()
	if !ok {
		return false
	}
	active, _ := h.deps.ActiveProfile()
	writeJSON(w, status, profileResponse{Baseline: baseline, Active: active})
	return true
}

// preciseBaseline swaps the submitted high and low, rounded to two decimals,
// for the report averages they were rounded from. The submitted values are
// kept when the exact ones would break low <= avg <= high.
func preciseBaseline(p *model.Profile) *model.Profile {
	exact := p.Clone()
	exact.High = score.Precise(p.High)
	exact.Low = score.Precise(p.Low)
	if exact.Low > exact.Avg || exact.Avg > exact.High {
		return p
	}
	return exact
}
