package driven

import (
	"context"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// ActivityStore defines the driven port for activity log persistence.
type ActivityStore interface {
	Append(ctx context.Context, entry model.ActivityLog) error

	// ListByAccount returns up to limit entries, newest first.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]model.ActivityLog, error)
}
