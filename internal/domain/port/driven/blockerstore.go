package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// ErrBlockerNotFound indicates the requested blocker does not exist.
var ErrBlockerNotFound = errors.New("blocker not found")

// BlockerStore defines the driven port for blocker persistence.
type BlockerStore interface {
	Create(ctx context.Context, blocker model.Blocker) error
	GetByID(ctx context.Context, id string) (*model.Blocker, error)
	ListByAccount(ctx context.Context, accountID string) ([]model.Blocker, error)

	// ListOpen returns every open blocker across all accounts.
	ListOpen(ctx context.Context) ([]model.OpenBlocker, error)

	// Resolve moves an open blocker to resolved and stamps resolvedAt.
	// Already-resolved blockers are left untouched. Returns ErrBlockerNotFound
	// when no blocker has the given id.
	Resolve(ctx context.Context, id string, at time.Time) error

	// EscalateStale sets escalation level 1 on every open, unescalated
	// blocker last updated before threshold and returns how many changed.
	EscalateStale(ctx context.Context, threshold time.Time) (int64, error)
}
