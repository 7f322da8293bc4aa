package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// CreateAccountInput is the payload for registering an account.
type CreateAccountInput struct {
	Name            string              `json:"name" validate:"required,max=200"`
	Status          model.AccountStatus `json:"status" validate:"omitempty,oneof=prospective onboarding active at_risk"`
	ContractEndDate *time.Time          `json:"contract_end_date"`
}

// AccountService handles account registration and status changes.
type AccountService struct {
	accountStore driven.AccountStore
	health       *HealthService
	clock        Clock
	newID        IDGenerator
	logger       *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountStore driven.AccountStore, health *HealthService, clock Clock, newID IDGenerator, logger *slog.Logger) *AccountService {
	return &AccountService{
		accountStore: accountStore,
		health:       health,
		clock:        clock,
		newID:        newID,
		logger:       logger,
	}
}

// Create registers a new account with the default health score. Status
// defaults to prospective. Returns driven.ErrAccountAlreadyExists for a
// duplicate name.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*model.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.AccountStatusProspective
	}

	account := model.Account{
		ID:              s.newID(),
		Name:            in.Name,
		HealthScore:     model.DefaultHealthScore,
		Status:          in.Status,
		ContractEndDate: in.ContractEndDate,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.accountStore.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account %q: %w", account.Name, err)
	}

	s.logger.Info("account created", "account_id", account.ID, "name", account.Name)
	return &account, nil
}

// Get returns the account or nil when it does not exist.
func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.accountStore.GetByID(ctx, id)
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.accountStore.ListAll(ctx)
}

// UpdateStatus changes the account's lifecycle status and re-scores it.
func (s *AccountService) UpdateStatus(ctx context.Context, id string, status model.AccountStatus) (*model.HealthScoreResult, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be one of: prospective onboarding active at_risk"}
	}

	account, err := s.accountStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account %q: %w", id, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, id)
	}

	if err := s.accountStore.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update account status %q: %w", id, err)
	}

	return s.health.ApplyHealthScore(ctx, id)
}
