package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// ErrNotificationNotFound indicates the requested notification does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationFilter narrows a notification listing. Zero values mean no filter.
type NotificationFilter struct {
	UnreadOnly bool
	AccountID  string
	Limit      int
}

// NotificationStore defines the driven port for notification persistence.
type NotificationStore interface {
	// ListUnreadKeys returns the dedup keys of every unread notification.
	ListUnreadKeys(ctx context.Context) ([]model.NotificationKey, error)

	// InsertBatch inserts all notifications in one statement. An empty slice
	// is a no-op.
	InsertBatch(ctx context.Context, notifications []model.Notification) error

	// List returns notifications ordered by priority, then newest first.
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)

	// MarkRead returns ErrNotificationNotFound when the id is unknown.
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
}
