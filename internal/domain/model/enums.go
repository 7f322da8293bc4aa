package model

// AccountStatus represents where an account sits in its lifecycle.
type AccountStatus string

const (
	AccountStatusProspective AccountStatus = "prospective"
	AccountStatusOnboarding  AccountStatus = "onboarding"
	AccountStatusActive      AccountStatus = "active"
	AccountStatusAtRisk      AccountStatus = "at_risk"
)

// Valid reports whether s is a known account status.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusProspective, AccountStatusOnboarding, AccountStatusActive, AccountStatusAtRisk:
		return true
	}
	return false
}

// BlockerCategory classifies the origin of a blocker.
type BlockerCategory string

const (
	BlockerCategoryInternal   BlockerCategory = "internal"
	BlockerCategoryExternal   BlockerCategory = "external"
	BlockerCategoryTechnical  BlockerCategory = "technical"
	BlockerCategoryCommercial BlockerCategory = "commercial"
)

// Valid reports whether c is a known blocker category.
func (c BlockerCategory) Valid() bool {
	switch c {
	case BlockerCategoryInternal, BlockerCategoryExternal, BlockerCategoryTechnical, BlockerCategoryCommercial:
		return true
	}
	return false
}

// BlockerStatus represents the state of a blocker. Resolved is terminal.
type BlockerStatus string

const (
	BlockerStatusOpen     BlockerStatus = "open"
	BlockerStatusResolved BlockerStatus = "resolved"
)

// PCRStatus represents the state of a product change request.
type PCRStatus string

const (
	PCRStatusRequested  PCRStatus = "requested"
	PCRStatusInProgress PCRStatus = "in_progress"
	PCRStatusCompleted  PCRStatus = "completed"
)

// Valid reports whether s is a known PCR status.
func (s PCRStatus) Valid() bool {
	switch s {
	case PCRStatusRequested, PCRStatusInProgress, PCRStatusCompleted:
		return true
	}
	return false
}

// ActivityType distinguishes how an activity log entry was produced.
type ActivityType string

const (
	ActivityTypeEmail     ActivityType = "email"
	ActivityTypeNote      ActivityType = "note"
	ActivityTypeAutomated ActivityType = "automated"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeEmail, ActivityTypeNote, ActivityTypeAutomated:
		return true
	}
	return false
}

// NotificationType identifies which attention rule produced a notification.
type NotificationType string

const (
	NotificationContractExpiry NotificationType = "CONTRACT_EXPIRY"
	NotificationHealthDrop     NotificationType = "HEALTH_DROP"
	NotificationStaleBlocker   NotificationType = "STALE_BLOCKER"
	NotificationNoActivity     NotificationType = "NO_ACTIVITY"
)
