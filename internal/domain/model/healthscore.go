package model

import "time"

// Health scores are integers in [MinHealthScore, MaxHealthScore].
const (
	MinHealthScore = 1
	MaxHealthScore = 5
)

// HealthSignals is the calculator input. Nil pointers mark signals that are
// not available and must be left out of the average.
type HealthSignals struct {
	OpenBlockerCount        int
	DaysSinceLastActivity   *int // nil when the account never logged activity.
	OpenPCRCount            int
	ConversationVolume      *int // nil when no usage has been ingested.
	DaysUntilContractExpiry *int // nil when the account has no contract end date.
}

// HealthScoreBreakdown holds each sub-score that fed the final score.
// PCRScore is fractional; rounding only happens on the aggregate.
type HealthScoreBreakdown struct {
	BlockerScore  int     `json:"blocker_score"`
	ActivityScore int     `json:"activity_score"`
	PCRScore      float64 `json:"pcr_score"`
	UsageScore    *int    `json:"usage_score"`
	ExpiryScore   int     `json:"expiry_score"`
}

// HealthScoreResult is the calculator output.
type HealthScoreResult struct {
	Score     int
	Breakdown HealthScoreBreakdown
}

// HealthScoreLog is one immutable row of an account's score history.
type HealthScoreLog struct {
	ID           string
	AccountID    string
	Score        int
	Breakdown    HealthScoreBreakdown
	CalculatedAt time.Time
}

// HealthScoreRecord describes everything one applier run persists. When
// Note is non-nil the score changed: the note is appended and the account's
// last activity timestamp moves to CalculatedAt.
type HealthScoreRecord struct {
	Log  HealthScoreLog
	Note *ActivityLog
}
