package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsForDoctor / ExistsForPatient back the dependency guards that
	// block profile deletion and role change.
	ExistsForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error)
	ExistsForPatient(ctx context.Context, patientID uuid.UUID) (bool, error)
}
