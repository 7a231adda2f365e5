package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists checks the id without fetching the row. Used by the
	// appointment and prescription workflows to validate references.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByEmail backs the uniqueness check on profile updates.
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}
