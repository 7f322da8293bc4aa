package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/accountpulse/internal/application"
)

// CreateBlocker opens a blocker on the account in the path.
func (h *Handler) CreateBlocker(w http.ResponseWriter, r *http.Request) {
	var req application.CreateBlockerInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	blocker, err := h.svc.Blockers.Create(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create blocker")
		return
	}

	writeJSON(w, http.StatusCreated, toBlockerResponse(*blocker))
}

// ResolveBlocker resolves a blocker. Already-resolved blockers are returned
// unchanged.
func (h *Handler) ResolveBlocker(w http.ResponseWriter, r *http.Request) {
	blocker, err := h.svc.Blockers.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resolve blocker")
		return
	}

	writeJSON(w, http.StatusOK, toBlockerResponse(*blocker))
}
