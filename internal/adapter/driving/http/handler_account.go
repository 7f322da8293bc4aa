package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/accountpulse/internal/application"
	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Dashboard refreshes attention notifications and returns the accounts that
// need attention together with every unread notification. Notification
// generation is best effort and never fails the request.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Attention.GenerateNotifications(r.Context()); err != nil {
		h.logger.Warn("notification generation failed", "error", err)
	}

	attention, err := h.svc.Attention.NeedingAttention(r.Context())
	if err != nil {
		h.logger.Error("failed to list accounts needing attention", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	notifications, err := h.svc.Notifications.List(r.Context(), driven.NotificationFilter{UnreadOnly: true})
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := DashboardResponse{
		Attention:     make([]AttentionResponse, 0, len(attention)),
		Notifications: toNotificationResponses(notifications),
	}
	for _, a := range attention {
		resp.Attention = append(resp.Attention, toAttentionResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.Accounts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list accounts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateAccount registers a new account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req application.CreateAccountInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.svc.Accounts.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(*account))
}

// GetAccount returns one account with its blockers. Stale blockers are
// escalated first on a best-effort basis so the detail view shows current
// escalation levels.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.svc.Escalation.EscalateStaleBlockers(r.Context()); err != nil {
		h.logger.Warn("blocker escalation failed", "error", err)
	}

	account, err := h.svc.Accounts.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get account", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	blockers, err := h.svc.Blockers.ListByAccount(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list blockers", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := AccountDetailResponse{
		AccountResponse: toAccountResponse(*account),
		Blockers:        make([]BlockerResponse, 0, len(blockers)),
	}
	for _, b := range blockers {
		resp.Blockers = append(resp.Blockers, toBlockerResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateAccountStatus changes an account's status and returns its new score.
func (h *Handler) UpdateAccountStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Accounts.UpdateStatus(r.Context(), r.PathValue("id"), model.AccountStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to update account status")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	writeJSON(w, http.StatusOK, toHealthScoreResponse(*result))
}

// RecalculateHealthScore re-scores one account on demand.
func (h *Handler) RecalculateHealthScore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.svc.Health.ApplyHealthScore(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to apply health score", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	writeJSON(w, http.StatusOK, toHealthScoreResponse(*result))
}

// ListHealthHistory returns an account's most recent score history.
func (h *Handler) ListHealthHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	history, err := h.svc.Health.History(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("failed to list health history", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]HealthScoreLogResponse, 0, len(history))
	for _, l := range history {
		resp = append(resp, toHealthScoreLogResponse(l))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListActivity returns an account's activity log with rendered content.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	entries, err := h.activityStore.ListByAccount(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("failed to list activity", "account_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toActivityResponse(e))
	}

	writeJSON(w, http.StatusOK, resp)
}
