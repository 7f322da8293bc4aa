package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// NotificationService exposes notification reads and the mark-read actions.
type NotificationService struct {
	notificationStore driven.NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationStore driven.NotificationStore) *NotificationService {
	return &NotificationService{notificationStore: notificationStore}
}

// List returns notifications matching filter.
func (s *NotificationService) List(ctx context.Context, filter driven.NotificationFilter) ([]model.Notification, error) {
	return s.notificationStore.List(ctx, filter)
}

// MarkRead marks one notification read. Returns driven.ErrNotificationNotFound
// for an unknown id.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notificationStore.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read %q: %w", id, err)
	}
	return nil
}

// MarkAllRead marks every unread notification read and returns the count.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.notificationStore.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}
