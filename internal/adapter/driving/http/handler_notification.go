package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// ListNotifications returns notifications, unread only with ?unread=true.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := driven.NotificationFilter{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		AccountID:  r.URL.Query().Get("account_id"),
		Limit:      limit,
	}

	notifications, err := h.svc.Notifications.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toNotificationResponses(notifications))
}

// MarkNotificationRead marks one notification read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifications.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, r, err, "failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every unread notification read.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Notifications.MarkAllRead(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to mark notifications read")
		return
	}

	writeJSON(w, http.StatusOK, MarkAllReadResponse{Updated: n})
}
