package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// ErrPCRNotFound indicates the requested product change request does not exist.
var ErrPCRNotFound = errors.New("product change request not found")

// PCRStore defines the driven port for product change request persistence.
type PCRStore interface {
	Create(ctx context.Context, pcr model.ProductChangeRequest) error
	GetByID(ctx context.Context, id string) (*model.ProductChangeRequest, error)
	ListAll(ctx context.Context) ([]model.ProductChangeRequest, error)

	// UpdateStatus changes the status. completedAt is stored only for
	// PCRStatusCompleted and cleared otherwise.
	UpdateStatus(ctx context.Context, id string, status model.PCRStatus, at time.Time) error

	// CountOpen returns the number of requests that are not completed.
	CountOpen(ctx context.Context) (int, error)
}
