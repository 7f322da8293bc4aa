package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/accountpulse/internal/application"
	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// ListPCRs returns all product change requests.
func (h *Handler) ListPCRs(w http.ResponseWriter, r *http.Request) {
	pcrs, err := h.svc.PCRs.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list product change requests", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PCRResponse, 0, len(pcrs))
	for _, p := range pcrs {
		resp = append(resp, toPCRResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreatePCR records a new product change request.
func (h *Handler) CreatePCR(w http.ResponseWriter, r *http.Request) {
	var req application.CreatePCRInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pcr, err := h.svc.PCRs.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create product change request")
		return
	}

	writeJSON(w, http.StatusCreated, toPCRResponse(*pcr))
}

// UpdatePCRStatus moves a product change request to a new status.
func (h *Handler) UpdatePCRStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pcr, err := h.svc.PCRs.UpdateStatus(r.Context(), r.PathValue("id"), model.PCRStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update product change request")
		return
	}

	writeJSON(w, http.StatusOK, toPCRResponse(*pcr))
}
