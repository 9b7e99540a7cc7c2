package portal

import (
	"context"
	"fmt"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

type NotificationService struct {
	store repository.NotificationRepo
}

func NewNotificationService(store repository.NotificationRepo) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the user's notifications, newest first, optionally filtered
// by read state.
func (s *NotificationService) List(ctx context.Context, userID string, isRead *bool) ([]models.Notification, error) {
	notes, err := s.store.ListNotifications(ctx, userID, isRead)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notes, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := s.store.MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
