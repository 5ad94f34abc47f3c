package api

import (
	"net/http"
	"strings"

	"github.com/okian/rvcalc/pkg/logger"
)

// ReportsHandler handles report commits and reads.
type ReportsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies, l logger.Logger) *ReportsHandler {
	return &ReportsHandler{deps: deps, logger: l}
}

// HandleUpsert handles PUT /reports requests.
func (h *ReportsHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_report"
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
	rpt, err := req.toReport(baseline.Rank)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.Upsert(r.Context(), rpt); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap(op, err))
		return
	}

	committed, ok := h.deps.Find(rpt.Name)
	if !ok {
		// reset by a concurrent request
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrConflict))
		return
	}
	writeJSON(w, http.StatusOK, newReportView(committed))
}

// HandleList handles GET /reports requests.
func (h *ReportsHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newReportViews(h.deps.Reports()))
}

// HandleGet handles GET /reports/{name} requests.
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrBadRequest))
		return
	}
	rpt, ok := h.deps.Find(name)
	if !ok {
		writeFailure(r.Context(), w, h.logger, NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, newReportView(rpt))
}
