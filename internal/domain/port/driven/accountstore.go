package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// ErrAccountAlreadyExists indicates an account with the same name already exists.
var ErrAccountAlreadyExists = errors.New("account already exists")

// AccountStore defines the driven port for account persistence.
// Single-record getters return nil, nil when the account does not exist.
type AccountStore interface {
	// Create inserts a new account. Returns ErrAccountAlreadyExists on a
	// duplicate name.
	Create(ctx context.Context, account model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByName(ctx context.Context, name string) (*model.Account, error)
	ListAll(ctx context.Context) ([]model.Account, error)

	// ListSummaries returns the fields the attention generator scans for
	// every account.
	ListSummaries(ctx context.Context) ([]model.AccountSummary, error)

	// GetSignals reads the stored score, activity, usage, contract date and
	// open blocker count for one account.
	GetSignals(ctx context.Context, id string) (*model.AccountSignals, error)

	UpdateStatus(ctx context.Context, id string, status model.AccountStatus) error
	SetConversationVolume(ctx context.Context, id string, volume int) error
}
