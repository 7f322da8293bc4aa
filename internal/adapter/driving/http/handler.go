package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/application"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxBodyBytes     = 1 << 20
)

// Services groups the application services the REST API drives.
type Services struct {
	Accounts      *application.AccountService
	Health        *application.HealthService
	Attention     *application.AttentionService
	Escalation    *application.EscalationService
	Blockers      *application.BlockerService
	PCRs          *application.PCRService
	Notifications *application.NotificationService
	Ingest        *application.IngestService
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	svc           Services
	activityStore driven.ActivityStore
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(svc Services, activityStore driven.ActivityStore, logger *slog.Logger) *Handler {
	return &Handler{
		svc:           svc,
		activityStore: activityStore,
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request id, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/dashboard", h.Dashboard)

	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("GET /api/v1/accounts/{id}", h.GetAccount)
	mux.HandleFunc("PATCH /api/v1/accounts/{id}/status", h.UpdateAccountStatus)
	mux.HandleFunc("POST /api/v1/accounts/{id}/health-score", h.RecalculateHealthScore)
	mux.HandleFunc("GET /api/v1/accounts/{id}/health-history", h.ListHealthHistory)
	mux.HandleFunc("GET /api/v1/accounts/{id}/activity", h.ListActivity)
	mux.HandleFunc("POST /api/v1/accounts/{id}/blockers", h.CreateBlocker)

	mux.HandleFunc("POST /api/v1/blockers/{id}/resolve", h.ResolveBlocker)

	mux.HandleFunc("GET /api/v1/pcrs", h.ListPCRs)
	mux.HandleFunc("POST /api/v1/pcrs", h.CreatePCR)
	mux.HandleFunc("PATCH /api/v1/pcrs/{id}/status", h.UpdatePCRStatus)

	mux.HandleFunc("GET /api/v1/notifications", h.ListNotifications)
	mux.HandleFunc("POST /api/v1/notifications/read-all", h.MarkAllNotificationsRead)
	mux.HandleFunc("POST /api/v1/notifications/{id}/read", h.MarkNotificationRead)

	mux.HandleFunc("POST /api/v1/ingest/usage", h.IngestUsage)
	mux.HandleFunc("POST /api/v1/ingest/activity", h.IngestActivity)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody decodes a JSON request body into dst. Unknown fields are
// rejected and type mismatches name the offending field.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Errorf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
	}
	return errors.New("invalid request body")
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Uint, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "valid"
	}
}

// writeServiceError maps application and store errors onto HTTP statuses.
// Anything unrecognized is logged and reported as a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *application.ValidationError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, application.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, driven.ErrBlockerNotFound):
		writeError(w, http.StatusNotFound, "blocker not found")
	case errors.Is(err, driven.ErrPCRNotFound):
		writeError(w, http.StatusNotFound, "product change request not found")
	case errors.Is(err, driven.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification not found")
	case errors.Is(err, driven.ErrAccountAlreadyExists):
		writeError(w, http.StatusConflict, "account already exists")
	default:
		h.logger.Error(msg, "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// limitParam reads ?limit=, falling back to the default and capping at the
// maximum. Returns an error for non-numeric or non-positive values.
func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxListLimit), nil
}
