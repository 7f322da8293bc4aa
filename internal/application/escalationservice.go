package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// EscalationService promotes stale open blockers to escalation level 1.
type EscalationService struct {
	blockerStore driven.BlockerStore
	policy       model.AttentionPolicy
	clock        Clock
	logger       *slog.Logger
}

// NewEscalationService creates a new EscalationService.
func NewEscalationService(blockerStore driven.BlockerStore, policy model.AttentionPolicy, clock Clock, logger *slog.Logger) *EscalationService {
	return &EscalationService{
		blockerStore: blockerStore,
		policy:       policy,
		clock:        clock,
		logger:       logger,
	}
}

// EscalateStaleBlockers marks every open, unescalated blocker last updated
// before the stale threshold in a single bulk update. Escalation is one-way
// and does not touch updatedAt, so repeated calls are no-ops until another
// blocker goes stale.
func (s *EscalationService) EscalateStaleBlockers(ctx context.Context) (int64, error) {
	threshold := s.policy.StaleThreshold(s.clock.Now())

	n, err := s.blockerStore.EscalateStale(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("escalate stale blockers: %w", err)
	}

	if n > 0 {
		s.logger.Info("stale blockers escalated", "count", n, "threshold", threshold)
	}
	return n, nil
}
