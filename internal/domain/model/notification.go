package model

import "time"

// Notification priorities; lower is more urgent.
const (
	PriorityHigh   = 1
	PriorityNormal = 2
)

// Notification is an advisory alert produced by the attention generator.
// AccountID is empty for global notifications.
type Notification struct {
	ID        string
	AccountID string
	Type      NotificationType
	Message   string
	Priority  int
	IsRead    bool
	CreatedAt time.Time
}

// Key returns the deduplication key for the notification.
func (n Notification) Key() NotificationKey {
	return NotificationKey{Type: n.Type, AccountID: n.AccountID}
}

// NotificationKey identifies a notification for deduplication: at most one
// unread notification exists per type and account. An empty AccountID is the
// global scope.
type NotificationKey struct {
	Type      NotificationType
	AccountID string
}
