package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// MedicationService manages the medication catalog. Unlike the profile
// catalogs, medications are created here directly; they have no owning
// account.
type MedicationService struct {
	repo          medication.Repository
	prescriptions prescription.Repository
	tx            TxManager
	log           *zap.Logger
}

func NewMedicationService(repo medication.Repository, prescriptions prescription.Repository, tx TxManager, log *zap.Logger) *MedicationService {
	return &MedicationService{repo: repo, prescriptions: prescriptions, tx: tx, log: log}
}

func (s *MedicationService) List(ctx context.Context) ([]*medication.Medication, error) {
	return s.repo.List(ctx)
}

func (s *MedicationService) Get(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MedicationService) Create(ctx context.Context, cmd *medication.CreateMedicationCommand) (*medication.Medication, error) {
	if cmd.Stock < 0 {
		return nil, medication.ErrNegativeStock
	}

	m := &medication.Medication{
		Name:        cmd.Name,
		Stock:       cmd.Stock,
		Description: cmd.Description,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating medication: %w", err)
	}
	return m, nil
}

func (s *MedicationService) Update(ctx context.Context, id uuid.UUID, cmd *medication.UpdateMedicationCommand) (*medication.Medication, error) {
	if cmd.Stock < 0 {
		return nil, medication.ErrNegativeStock
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Name = cmd.Name
	m.Stock = cmd.Stock
	m.Description = cmd.Description
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating medication: %w", err)
	}
	return m, nil
}

// Delete refuses while prescriptions still reference the medication.
func (s *MedicationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return medication.ErrMedicationNotFound
		}

		referenced, err := s.prescriptions.ExistsForMedication(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return medication.ErrMedicationReferenced
		}
		return s.repo.Delete(ctx, id)
	})
}
