package notification

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error

	// ListByUser returns the user's notifications newest-first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)

	// MarkRead flips the flag on a single notification owned by userID.
	// Returns ErrNotificationNotFound when the id does not belong to them.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
