package model

import "time"

// ActivityLog is an entry in an account's activity feed. Content is markdown.
type ActivityLog struct {
	ID        string
	AccountID string
	Content   string
	Type      ActivityType
	CreatedAt time.Time
}
