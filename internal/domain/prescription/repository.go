package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	List(ctx context.Context) ([]*Prescription, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)
	ListByPharmacist(ctx context.Context, pharmacistID uuid.UUID) ([]*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	Delete(ctx context.Context, id uuid.UUID) error

	ExistsForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error)
	ExistsForPatient(ctx context.Context, patientID uuid.UUID) (bool, error)
	ExistsForPharmacist(ctx context.Context, pharmacistID uuid.UUID) (bool, error)
	ExistsForMedication(ctx context.Context, medicationID uuid.UUID) (bool, error)
}
