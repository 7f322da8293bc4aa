package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// UsageIngest is an external usage report for one account. ConversationVolume
// is a pointer so a missing field can be told apart from zero.
type UsageIngest struct {
	AccountName        string `json:"account_name" validate:"required,max=200"`
	ConversationVolume *int   `json:"conversation_volume" validate:"required,gte=0"`
}

// UsageIngestResult reports the stored volume and the score it produced.
// NewHealthScore is nil when the account vanished before scoring.
type UsageIngestResult struct {
	AccountID          string
	ConversationVolume int
	NewHealthScore     *int
}

// ActivityIngest is an externally logged interaction for one account.
type ActivityIngest struct {
	AccountName string             `json:"account_name" validate:"required,max=200"`
	Content     string             `json:"content" validate:"required,max=10000"`
	Type        model.ActivityType `json:"type" validate:"required,oneof=email note automated"`
}

// IngestService accepts usage and activity data from external systems and
// resolves account names to ids.
type IngestService struct {
	accountStore  driven.AccountStore
	activityStore driven.ActivityStore
	health        *HealthService
	clock         Clock
	newID         IDGenerator
	logger        *slog.Logger
}

// NewIngestService creates a new IngestService.
func NewIngestService(
	accountStore driven.AccountStore,
	activityStore driven.ActivityStore,
	health *HealthService,
	clock Clock,
	newID IDGenerator,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		accountStore:  accountStore,
		activityStore: activityStore,
		health:        health,
		clock:         clock,
		newID:         newID,
		logger:        logger,
	}
}

// IngestUsage stores the reported conversation volume, logs an automated note
// and re-scores the account. Invalid payloads return a *ValidationError and
// write nothing; unknown names return ErrAccountNotFound.
func (s *IngestService) IngestUsage(ctx context.Context, in UsageIngest) (*UsageIngestResult, error) {
	in.AccountName = strings.TrimSpace(in.AccountName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	account, err := s.resolve(ctx, in.AccountName)
	if err != nil {
		return nil, err
	}

	volume := *in.ConversationVolume
	if err := s.accountStore.SetConversationVolume(ctx, account.ID, volume); err != nil {
		return nil, fmt.Errorf("store conversation volume %q: %w", account.ID, err)
	}

	note := model.ActivityLog{
		ID:        s.newID(),
		AccountID: account.ID,
		Content:   fmt.Sprintf("Usage data ingested: %d conversations", volume),
		Type:      model.ActivityTypeAutomated,
		CreatedAt: s.clock.Now(),
	}
	if err := s.activityStore.Append(ctx, note); err != nil {
		return nil, fmt.Errorf("append usage note %q: %w", account.ID, err)
	}

	scored, err := s.health.ApplyHealthScore(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	result := &UsageIngestResult{AccountID: account.ID, ConversationVolume: volume}
	if scored != nil {
		result.NewHealthScore = &scored.Score
	}

	s.logger.Info("usage ingested", "account_id", account.ID, "conversation_volume", volume)
	return result, nil
}

// IngestActivity appends an activity entry to the named account.
func (s *IngestService) IngestActivity(ctx context.Context, in ActivityIngest) (*model.ActivityLog, error) {
	in.AccountName = strings.TrimSpace(in.AccountName)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	account, err := s.resolve(ctx, in.AccountName)
	if err != nil {
		return nil, err
	}

	entry := model.ActivityLog{
		ID:        s.newID(),
		AccountID: account.ID,
		Content:   in.Content,
		Type:      in.Type,
		CreatedAt: s.clock.Now(),
	}
	if err := s.activityStore.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append activity %q: %w", account.ID, err)
	}
	return &entry, nil
}

func (s *IngestService) resolve(ctx context.Context, name string) (*model.Account, error) {
	account, err := s.accountStore.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve account %q: %w", name, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	return account, nil
}
