package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// ComputeNotificationCandidates evaluates every account and open blocker
// against the attention rules and returns the notifications that should be
// created. Candidates whose key is in existing are skipped, and one pass
// yields at most one notification per type and account. existing is only
// read. The returned notifications carry no ID.
func ComputeNotificationCandidates(
	accounts []model.AccountSummary,
	blockers []model.OpenBlocker,
	existing []model.NotificationKey,
	policy model.AttentionPolicy,
	now time.Time,
) []model.Notification {
	seen := make(map[model.NotificationKey]struct{}, len(existing))
	for _, k := range existing {
		seen[k] = struct{}{}
	}

	var out []model.Notification
	add := func(n model.Notification) {
		key := n.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		n.CreatedAt = now
		out = append(out, n)
	}

	contractCutoff := now.AddDate(0, 0, policy.ContractWindowDays)

	for _, a := range accounts {
		if a.ContractEndDate != nil && a.ContractEndDate.Before(contractCutoff) {
			daysLeft := model.WholeDaysBetween(now, *a.ContractEndDate)
			priority := model.PriorityNormal
			if daysLeft <= policy.UrgentContractDays {
				priority = model.PriorityHigh
			}
			add(model.Notification{
				AccountID: a.ID,
				Type:      model.NotificationContractExpiry,
				Message:   contractExpiryMessage(a.Name, daysLeft),
				Priority:  priority,
			})
		}

		if a.HealthScore <= policy.HealthDropThreshold {
			add(model.Notification{
				AccountID: a.ID,
				Type:      model.NotificationHealthDrop,
				Message:   fmt.Sprintf("%s: health score dropped to %d/%d", a.Name, a.HealthScore, model.MaxHealthScore),
				Priority:  model.PriorityHigh,
			})
		}

		if a.LastActivityAt == nil {
			add(model.Notification{
				AccountID: a.ID,
				Type:      model.NotificationNoActivity,
				Message:   fmt.Sprintf("%s: no activity logged in %d+ days", a.Name, policy.InactivityDays),
				Priority:  model.PriorityNormal,
			})
		} else if idle := model.WholeDaysBetween(*a.LastActivityAt, now); idle > policy.InactivityDays {
			add(model.Notification{
				AccountID: a.ID,
				Type:      model.NotificationNoActivity,
				Message:   fmt.Sprintf("%s: no activity logged in %d days", a.Name, idle),
				Priority:  model.PriorityNormal,
			})
		}
	}

	for _, b := range blockers {
		idle := b.DaysSinceUpdate(now)
		if idle <= policy.StaleBlockerDays {
			continue
		}
		add(model.Notification{
			AccountID: b.AccountID,
			Type:      model.NotificationStaleBlocker,
			Message:   fmt.Sprintf("Stale blocker %q: no update in %d days", b.Title, idle),
			Priority:  model.PriorityNormal,
		})
	}

	return out
}

func contractExpiryMessage(name string, daysLeft int) string {
	if daysLeft < 0 {
		return fmt.Sprintf("%s: contract expired %s ago", name, pluralDays(-daysLeft))
	}
	return fmt.Sprintf("%s: contract expires in %s", name, pluralDays(daysLeft))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// ComputeAttentionReasons lists why an account should surface on the
// dashboard. openBlockers must contain only this account's open blockers.
func ComputeAttentionReasons(
	account model.Account,
	openBlockers []model.OpenBlocker,
	policy model.AttentionPolicy,
	now time.Time,
) []model.AttentionReason {
	var reasons []model.AttentionReason

	if account.HealthScore <= policy.HealthDropThreshold {
		reasons = append(reasons, model.AttentionReason{
			Label:    fmt.Sprintf("Health score: %d/%d", account.HealthScore, model.MaxHealthScore),
			Severity: model.SeverityCritical,
		})
	}

	stale := 0
	for _, b := range openBlockers {
		if b.DaysSinceUpdate(now) > policy.StaleBlockerDays {
			stale++
		}
	}
	if stale > 0 {
		reasons = append(reasons, model.AttentionReason{
			Label:    countLabel(stale, "stale blocker"),
			Severity: model.SeverityWarning,
		})
	}
	if len(openBlockers) > 0 && account.HealthScore <= policy.BlockerWarningHealth {
		reasons = append(reasons, model.AttentionReason{
			Label:    countLabel(len(openBlockers), "open blocker"),
			Severity: model.SeverityWarning,
		})
	}

	if account.ContractEndDate != nil && account.ContractEndDate.Before(now.AddDate(0, 0, policy.ContractWindowDays)) {
		daysLeft := model.WholeDaysBetween(now, *account.ContractEndDate)
		severity := model.SeverityWarning
		if daysLeft <= policy.UrgentContractDays {
			severity = model.SeverityCritical
		}
		reasons = append(reasons, model.AttentionReason{
			Label:    "Contract expires in " + pluralDays(daysLeft),
			Severity: severity,
		})
	}

	return reasons
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// AttentionService generates attention notifications and the dashboard's
// needs-attention list.
type AttentionService struct {
	accountStore      driven.AccountStore
	blockerStore      driven.BlockerStore
	notificationStore driven.NotificationStore
	policy            model.AttentionPolicy
	clock             Clock
	newID             IDGenerator
	logger            *slog.Logger
}

// NewAttentionService creates a new AttentionService.
func NewAttentionService(
	accountStore driven.AccountStore,
	blockerStore driven.BlockerStore,
	notificationStore driven.NotificationStore,
	policy model.AttentionPolicy,
	clock Clock,
	newID IDGenerator,
	logger *slog.Logger,
) *AttentionService {
	return &AttentionService{
		accountStore:      accountStore,
		blockerStore:      blockerStore,
		notificationStore: notificationStore,
		policy:            policy,
		clock:             clock,
		newID:             newID,
		logger:            logger,
	}
}

// GenerateNotifications scans all accounts and open blockers and inserts one
// notification per newly triggered rule. A rule whose (type, account) key
// already has an unread notification is skipped, so repeated calls with no
// state change insert nothing. Returns the number of notifications created.
//
// Concurrent calls may race between the unread check and the insert and
// produce an occasional duplicate; notifications are advisory so this is
// tolerated.
func (s *AttentionService) GenerateNotifications(ctx context.Context) (int, error) {
	var (
		accounts []model.AccountSummary
		blockers []model.OpenBlocker
		keys     []model.NotificationKey
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountStore.ListSummaries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		blockers, err = s.blockerStore.ListOpen(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		keys, err = s.notificationStore.ListUnreadKeys(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("load attention inputs: %w", err)
	}

	candidates := ComputeNotificationCandidates(accounts, blockers, keys, s.policy, s.clock.Now())
	if len(candidates) == 0 {
		return 0, nil
	}

	for i := range candidates {
		candidates[i].ID = s.newID()
	}

	if err := s.notificationStore.InsertBatch(ctx, candidates); err != nil {
		return 0, fmt.Errorf("insert notifications: %w", err)
	}

	s.logger.Info("notifications generated", "count", len(candidates))
	return len(candidates), nil
}

// NeedingAttention returns accounts with at least one attention reason,
// critical ones first, then by ascending health score.
func (s *AttentionService) NeedingAttention(ctx context.Context) ([]model.AccountAttention, error) {
	accounts, err := s.accountStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	blockers, err := s.blockerStore.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open blockers: %w", err)
	}

	byAccount := make(map[string][]model.OpenBlocker)
	for _, b := range blockers {
		byAccount[b.AccountID] = append(byAccount[b.AccountID], b)
	}

	now := s.clock.Now()
	var result []model.AccountAttention
	for _, a := range accounts {
		reasons := ComputeAttentionReasons(a, byAccount[a.ID], s.policy, now)
		if len(reasons) == 0 {
			continue
		}
		result = append(result, model.AccountAttention{Account: a, Reasons: reasons})
	}

	sort.SliceStable(result, func(i, j int) bool {
		ci, cj := result[i].IsCritical(), result[j].IsCritical()
		if ci != cj {
			return ci
		}
		return result[i].Account.HealthScore < result[j].Account.HealthScore
	})

	return result, nil
}
