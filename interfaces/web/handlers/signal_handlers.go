package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitegrade/application"
	"sitegrade/domain/audit"
	"sitegrade/logging"
)

// SignalHandlers serves the per-signal run endpoint.
type SignalHandlers struct {
	signals *application.SignalService
	logger  *logging.Logger
}

// NewSignalHandlers creates the signal handler set.
func NewSignalHandlers(signals *application.SignalService) *SignalHandlers {
	return &SignalHandlers{
		signals: signals,
		logger:  logging.Default().WithComponent("signal_handlers"),
	}
}

// RunSignal handles POST /audits/{auditID}/signals/{signal}/run. The run is
// synchronous and the response is advisory; the audit record is the ground
// truth for the signal's state.
func (h *SignalHandlers) RunSignal(w http.ResponseWriter, r *http.Request) {
	auditID := chi.URLParam(r, "auditID")
	key := audit.SignalKey(chi.URLParam(r, "signal"))

	if !key.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown signal: %q", key))
		return
	}

	outcome, err := h.signals.Run(r.Context(), auditID, key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
