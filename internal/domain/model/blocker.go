package model

import "time"

// MaxEscalationLevel is the highest level the sweeper promotes a blocker to.
const MaxEscalationLevel = 1

// Blocker is a tracked impediment on an account.
type Blocker struct {
	ID              string
	AccountID       string
	Title           string
	Description     string
	Category        BlockerCategory
	Status          BlockerStatus
	Owner           string
	EscalationLevel int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

// IsOpen reports whether the blocker still counts against the account.
func (b Blocker) IsOpen() bool {
	return b.Status == BlockerStatusOpen
}

// OpenBlocker is the projection the attention generator scans.
type OpenBlocker struct {
	ID        string
	Title     string
	AccountID string
	UpdatedAt time.Time
}

// DaysSinceUpdate returns whole days since the blocker was last touched.
func (b OpenBlocker) DaysSinceUpdate(now time.Time) int {
	return WholeDaysBetween(b.UpdatedAt, now)
}
