package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// StatusRequest is the JSON body for the status update endpoints.
type StatusRequest struct {
	Status string `json:"status"`
}

// AccountResponse is the JSON representation of an account.
type AccountResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	HealthScore        int     `json:"health_score"`
	Status             string  `json:"status"`
	ContractEndDate    *string `json:"contract_end_date"`
	LastActivityAt     *string `json:"last_activity_at"`
	ConversationVolume *int    `json:"conversation_volume"`
	CreatedAt          string  `json:"created_at"`
}

// AccountDetailResponse adds the account's blockers.
type AccountDetailResponse struct {
	AccountResponse
	Blockers []BlockerResponse `json:"blockers"`
}

// BlockerResponse is the JSON representation of a blocker.
type BlockerResponse struct {
	ID              string  `json:"id"`
	AccountID       string  `json:"account_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Status          string  `json:"status"`
	Owner           string  `json:"owner"`
	EscalationLevel int     `json:"escalation_level"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ResolvedAt      *string `json:"resolved_at"`
}

// HealthScoreResponse is the result of one scoring run.
type HealthScoreResponse struct {
	Score     int                        `json:"score"`
	Breakdown model.HealthScoreBreakdown `json:"breakdown"`
}

// HealthScoreLogResponse is one row of score history.
type HealthScoreLogResponse struct {
	ID           string                     `json:"id"`
	Score        int                        `json:"score"`
	Breakdown    model.HealthScoreBreakdown `json:"breakdown"`
	CalculatedAt string                     `json:"calculated_at"`
}

// ActivityResponse is an activity entry with its markdown content rendered
// to sanitized HTML.
type ActivityResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html"`
	CreatedAt   string `json:"created_at"`
}

// PCRResponse is the JSON representation of a product change request.
type PCRResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    int     `json:"priority"`
	RequestedBy string  `json:"requested_by"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

// NotificationResponse is the JSON representation of a notification.
// AccountID is omitted for global notifications.
type NotificationResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id,omitempty"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Priority  int    `json:"priority"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// AttentionReasonResponse is one reason an account needs attention.
type AttentionReasonResponse struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// AttentionResponse pairs an account with its attention reasons.
type AttentionResponse struct {
	Account AccountResponse           `json:"account"`
	Reasons []AttentionReasonResponse `json:"reasons"`
}

// DashboardResponse is the body of the dashboard endpoint.
type DashboardResponse struct {
	Attention     []AttentionResponse    `json:"attention"`
	Notifications []NotificationResponse `json:"notifications"`
}

// UsageIngestResponse is the result of a usage ingestion. NewHealthScore is
// null when the account could not be scored.
type UsageIngestResponse struct {
	AccountID          string `json:"account_id"`
	ConversationVolume int    `json:"conversation_volume"`
	NewHealthScore     *int   `json:"new_health_score"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:                 a.ID,
		Name:               a.Name,
		HealthScore:        a.HealthScore,
		Status:             string(a.Status),
		ContractEndDate:    formatOptionalTime(a.ContractEndDate),
		LastActivityAt:     formatOptionalTime(a.LastActivityAt),
		ConversationVolume: a.ConversationVolume,
		CreatedAt:          formatTime(a.CreatedAt),
	}
}

func toBlockerResponse(b model.Blocker) BlockerResponse {
	return BlockerResponse{
		ID:              b.ID,
		AccountID:       b.AccountID,
		Title:           b.Title,
		Description:     b.Description,
		Category:        string(b.Category),
		Status:          string(b.Status),
		Owner:           b.Owner,
		EscalationLevel: b.EscalationLevel,
		CreatedAt:       formatTime(b.CreatedAt),
		UpdatedAt:       formatTime(b.UpdatedAt),
		ResolvedAt:      formatOptionalTime(b.ResolvedAt),
	}
}

func toHealthScoreResponse(r model.HealthScoreResult) HealthScoreResponse {
	return HealthScoreResponse{Score: r.Score, Breakdown: r.Breakdown}
}

func toHealthScoreLogResponse(l model.HealthScoreLog) HealthScoreLogResponse {
	return HealthScoreLogResponse{
		ID:           l.ID,
		Score:        l.Score,
		Breakdown:    l.Breakdown,
		CalculatedAt: formatTime(l.CalculatedAt),
	}
}

func toActivityResponse(e model.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:          e.ID,
		AccountID:   e.AccountID,
		Type:        string(e.Type),
		Content:     e.Content,
		ContentHTML: renderMarkdown(e.Content),
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func toPCRResponse(p model.ProductChangeRequest) PCRResponse {
	return PCRResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		RequestedBy: p.RequestedBy,
		Status:      string(p.Status),
		CreatedAt:   formatTime(p.CreatedAt),
		CompletedAt: formatOptionalTime(p.CompletedAt),
	}
}

func toNotificationResponses(ns []model.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			AccountID: n.AccountID,
			Type:      string(n.Type),
			Message:   n.Message,
			Priority:  n.Priority,
			IsRead:    n.IsRead,
			CreatedAt: formatTime(n.CreatedAt),
		})
	}
	return resp
}

func toAttentionResponse(a model.AccountAttention) AttentionResponse {
	reasons := make([]AttentionReasonResponse, 0, len(a.Reasons))
	for _, r := range a.Reasons {
		reasons = append(reasons, AttentionReasonResponse{Label: r.Label, Severity: string(r.Severity)})
	}
	return AttentionResponse{Account: toAccountResponse(a.Account), Reasons: reasons}
}
