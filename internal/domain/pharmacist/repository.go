package pharmacist

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Pharmacist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pharmacist, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Pharmacist, error)
	List(ctx context.Context) ([]*Pharmacist, error)
	Update(ctx context.Context, p *Pharmacist) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}
