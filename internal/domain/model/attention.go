package model

import "time"

// AttentionPolicy holds the windows the attention generator, the escalation
// sweeper and the dashboard reasons share.
type AttentionPolicy struct {
	StaleBlockerDays     int // open blockers untouched longer than this are stale
	InactivityDays       int // accounts without activity longer than this are idle
	ContractWindowDays   int // contracts ending inside this window raise an alert
	UrgentContractDays   int // contracts ending inside this window are high priority
	HealthDropThreshold  int // health scores at or below this raise an alert
	BlockerWarningHealth int // open blockers are flagged when health is at or below this
}

// DefaultAttentionPolicy returns the standard attention windows.
func DefaultAttentionPolicy() AttentionPolicy {
	return AttentionPolicy{
		StaleBlockerDays:     5,
		InactivityDays:       30,
		ContractWindowDays:   60,
		UrgentContractDays:   14,
		HealthDropThreshold:  2,
		BlockerWarningHealth: 3,
	}
}

// StaleThreshold returns the updated_at cutoff before which an open blocker
// is overdue for escalation.
func (p AttentionPolicy) StaleThreshold(now time.Time) time.Time {
	return now.Add(-time.Duration(p.StaleBlockerDays) * 24 * time.Hour)
}

// AttentionSeverity ranks a dashboard attention reason.
type AttentionSeverity string

const (
	SeverityCritical AttentionSeverity = "critical"
	SeverityWarning  AttentionSeverity = "warning"
)

// AttentionReason is a transient, human-readable explanation of why an
// account surfaces on the dashboard. It is never persisted.
type AttentionReason struct {
	Label    string
	Severity AttentionSeverity
}

// AccountAttention pairs an account with its active reasons.
type AccountAttention struct {
	Account Account
	Reasons []AttentionReason
}

// IsCritical reports whether any reason is critical.
func (a AccountAttention) IsCritical() bool {
	for _, r := range a.Reasons {
		if r.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
