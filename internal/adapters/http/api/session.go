package api

import "net/http"

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleReset handles DELETE /session requests.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.deps.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
