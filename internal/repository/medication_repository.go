package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahtycare/sahty/internal/domain/medication"
)

type MedicationRepository struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

func (r *MedicationRepository) Create(ctx context.Context, m *medication.Medication) error {
	return conn(ctx, r.db).Create(m).Error
}

func (r *MedicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error) {
	var m medication.Medication
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, medication.ErrMedicationNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MedicationRepository) List(ctx context.Context) ([]*medication.Medication, error) {
	var meds []*medication.Medication
	if err := conn(ctx, r.db).Order("name").Find(&meds).Error; err != nil {
		return nil, err
	}
	return meds, nil
}

func (r *MedicationRepository) Update(ctx context.Context, m *medication.Medication) error {
	res := conn(ctx, r.db).Model(&medication.Medication{}).Where("id = ?", m.ID).
		Updates(map[string]any{
			"name":        m.Name,
			"stock":       m.Stock,
			"description": m.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medication.ErrMedicationNotFound
	}
	return nil
}

func (r *MedicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&medication.Medication{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medication.ErrMedicationNotFound
	}
	return nil
}

func (r *MedicationRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&medication.Medication{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
