package model

import "time"

// DefaultHealthScore is the score assigned to a newly created account.
const DefaultHealthScore = 5

// Account is a managed customer record and the aggregate root for blockers,
// activity, health history and notifications.
type Account struct {
	ID                 string
	Name               string
	HealthScore        int
	Status             AccountStatus
	ContractEndDate    *time.Time // nil when no contract date is tracked.
	LastActivityAt     *time.Time // nil until the first health-affecting event.
	ConversationVolume *int       // nil until usage has been ingested.
	CreatedAt          time.Time
}

// AccountSummary is the projection the attention generator scans.
type AccountSummary struct {
	ID              string
	Name            string
	ContractEndDate *time.Time
	HealthScore     int
	LastActivityAt  *time.Time
}

// AccountSignals is everything the health score applier needs to read about
// one account in a single query.
type AccountSignals struct {
	AccountID          string
	HealthScore        int
	LastActivityAt     *time.Time
	ConversationVolume *int
	ContractEndDate    *time.Time
	OpenBlockerCount   int
}

// WholeDaysBetween returns the number of complete 24-hour periods from
// `from` to `to`, truncated toward zero. Negative when `to` is before `from`.
func WholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
