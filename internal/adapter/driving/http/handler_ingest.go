package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/accountpulse/internal/application"
)

// IngestUsage stores a usage report and returns the account's new score.
func (h *Handler) IngestUsage(w http.ResponseWriter, r *http.Request) {
	var req application.UsageIngest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Ingest.IngestUsage(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to ingest usage")
		return
	}

	writeJSON(w, http.StatusOK, UsageIngestResponse{
		AccountID:          result.AccountID,
		ConversationVolume: result.ConversationVolume,
		NewHealthScore:     result.NewHealthScore,
	})
}

// IngestActivity appends an externally logged interaction.
func (h *Handler) IngestActivity(w http.ResponseWriter, r *http.Request) {
	var req application.ActivityIngest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.svc.Ingest.IngestActivity(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to ingest activity")
		return
	}

	writeJSON(w, http.StatusCreated, toActivityResponse(*entry))
}
