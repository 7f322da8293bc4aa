package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// CreateBlockerInput is the payload for opening a blocker on an account.
type CreateBlockerInput struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"max=5000"`
	Category    model.BlockerCategory `json:"category" validate:"required,oneof=internal external technical commercial"`
	Owner       string                `json:"owner" validate:"max=200"`
}

// BlockerService manages the blocker lifecycle. Every transition writes an
// automated activity note and re-scores the owning account.
type BlockerService struct {
	accountStore  driven.AccountStore
	blockerStore  driven.BlockerStore
	activityStore driven.ActivityStore
	health        *HealthService
	clock         Clock
	newID         IDGenerator
	logger        *slog.Logger
}

// NewBlockerService creates a new BlockerService.
func NewBlockerService(
	accountStore driven.AccountStore,
	blockerStore driven.BlockerStore,
	activityStore driven.ActivityStore,
	health *HealthService,
	clock Clock,
	newID IDGenerator,
	logger *slog.Logger,
) *BlockerService {
	return &BlockerService{
		accountStore:  accountStore,
		blockerStore:  blockerStore,
		activityStore: activityStore,
		health:        health,
		clock:         clock,
		newID:         newID,
		logger:        logger,
	}
}

// Create opens a new level-0 blocker on the account.
func (s *BlockerService) Create(ctx context.Context, accountID string, in CreateBlockerInput) (*model.Blocker, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	account, err := s.accountStore.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account %q: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, accountID)
	}

	now := s.clock.Now()
	blocker := model.Blocker{
		ID:          s.newID(),
		AccountID:   accountID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      model.BlockerStatusOpen,
		Owner:       in.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.blockerStore.Create(ctx, blocker); err != nil {
		return nil, fmt.Errorf("create blocker: %w", err)
	}

	s.note(ctx, accountID, fmt.Sprintf("Blocker created: %q (%s)", blocker.Title, blocker.Category))

	if _, err := s.health.ApplyHealthScore(ctx, accountID); err != nil {
		return nil, err
	}
	return &blocker, nil
}

// Resolve closes an open blocker. Resolving an already-resolved blocker
// returns it unchanged without re-scoring.
func (s *BlockerService) Resolve(ctx context.Context, id string) (*model.Blocker, error) {
	blocker, err := s.blockerStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blocker %q: %w", id, err)
	}
	if blocker == nil {
		return nil, driven.ErrBlockerNotFound
	}
	if !blocker.IsOpen() {
		return blocker, nil
	}

	now := s.clock.Now()
	if err := s.blockerStore.Resolve(ctx, id, now); err != nil {
		return nil, fmt.Errorf("resolve blocker %q: %w", id, err)
	}
	blocker.Status = model.BlockerStatusResolved
	blocker.UpdatedAt = now
	blocker.ResolvedAt = &now

	s.note(ctx, blocker.AccountID, fmt.Sprintf("Blocker resolved: %q", blocker.Title))

	if _, err := s.health.ApplyHealthScore(ctx, blocker.AccountID); err != nil {
		return nil, err
	}
	return blocker, nil
}

// ListByAccount returns every blocker on the account.
func (s *BlockerService) ListByAccount(ctx context.Context, accountID string) ([]model.Blocker, error) {
	return s.blockerStore.ListByAccount(ctx, accountID)
}

// note appends an automated audit note. A failed note is logged and does not
// undo the blocker change.
func (s *BlockerService) note(ctx context.Context, accountID, content string) {
	err := s.activityStore.Append(ctx, model.ActivityLog{
		ID:        s.newID(),
		AccountID: accountID,
		Content:   content,
		Type:      model.ActivityTypeAutomated,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to append blocker note", "account_id", accountID, "error", err)
	}
}
