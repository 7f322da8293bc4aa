package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// HealthService recomputes and persists account health scores. It holds no
// state between calls; every run re-reads the signals it needs.
type HealthService struct {
	accountStore driven.AccountStore
	pcrStore     driven.PCRStore
	healthStore  driven.HealthScoreStore
	clock        Clock
	newID        IDGenerator
	logger       *slog.Logger
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(
	accountStore driven.AccountStore,
	pcrStore driven.PCRStore,
	healthStore driven.HealthScoreStore,
	clock Clock,
	newID IDGenerator,
	logger *slog.Logger,
) *HealthService {
	return &HealthService{
		accountStore: accountStore,
		pcrStore:     pcrStore,
		healthStore:  healthStore,
		clock:        clock,
		newID:        newID,
		logger:       logger,
	}
}

// ApplyHealthScore recomputes one account's score and stores it together with
// a history row. When the score moved, an automated activity note is added and
// the account's last activity is bumped to now. Returns nil, nil without
// writing anything when the account does not exist.
func (s *HealthService) ApplyHealthScore(ctx context.Context, accountID string) (*model.HealthScoreResult, error) {
	signals, err := s.accountStore.GetSignals(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load health signals %q: %w", accountID, err)
	}
	if signals == nil {
		return nil, nil
	}

	openPCRs, err := s.pcrStore.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("count open product change requests: %w", err)
	}

	now := s.clock.Now()
	result := ComputeHealthScore(healthSignalsAt(*signals, openPCRs, now))

	rec := model.HealthScoreRecord{
		Log: model.HealthScoreLog{
			ID:           s.newID(),
			AccountID:    accountID,
			Score:        result.Score,
			Breakdown:    result.Breakdown,
			CalculatedAt: now,
		},
	}
	if result.Score != signals.HealthScore {
		rec.Note = &model.ActivityLog{
			ID:        s.newID(),
			AccountID: accountID,
			Content:   fmt.Sprintf("Health score updated: %d → %d", signals.HealthScore, result.Score),
			Type:      model.ActivityTypeAutomated,
			CreatedAt: now,
		}
	}

	if err := s.healthStore.RecordHealthScore(ctx, rec); err != nil {
		return nil, fmt.Errorf("record health score %q: %w", accountID, err)
	}

	if rec.Note != nil {
		s.logger.Info("health score changed",
			"account_id", accountID,
			"from", signals.HealthScore,
			"to", result.Score,
		)
	}

	return &result, nil
}

// History returns the most recent score history rows for an account.
func (s *HealthService) History(ctx context.Context, accountID string, limit int) ([]model.HealthScoreLog, error) {
	return s.healthStore.ListHistory(ctx, accountID, limit)
}

// healthSignalsAt converts stored account signals into calculator input as
// seen at now.
func healthSignalsAt(signals model.AccountSignals, openPCRs int, now time.Time) model.HealthSignals {
	in := model.HealthSignals{
		OpenBlockerCount:   signals.OpenBlockerCount,
		OpenPCRCount:       openPCRs,
		ConversationVolume: signals.ConversationVolume,
	}
	if signals.LastActivityAt != nil {
		days := model.WholeDaysBetween(*signals.LastActivityAt, now)
		in.DaysSinceLastActivity = &days
	}
	if signals.ContractEndDate != nil {
		days := model.WholeDaysBetween(now, *signals.ContractEndDate)
		in.DaysUntilContractExpiry = &days
	}
	return in
}
