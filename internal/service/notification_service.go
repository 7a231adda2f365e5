package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain/notification"
)

// NotificationService is the append-only per-user message sink. Workflows
// emit through Notify inside their own transaction; reads and read-flag
// updates come from the notifications endpoints.
type NotificationService struct {
	repo notification.Repository
	log  *zap.Logger
}

func NewNotificationService(repo notification.Repository, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

// Notify persists a notification for userID. It shares the caller's
// transaction, so a failed emission fails the triggering operation rather
// than being silently swallowed.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message, linkURL string) error {
	n := &notification.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		LinkURL: linkURL,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
