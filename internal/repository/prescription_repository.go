package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahtycare/sahty/internal/domain/prescription"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func (r *PrescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	if err := conn(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, prescription.ErrPrescriptionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PrescriptionRepository) List(ctx context.Context) ([]*prescription.Prescription, error) {
	var items []*prescription.Prescription
	if err := conn(ctx, r.db).Order("date_issued DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PrescriptionRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*prescription.Prescription, error) {
	var items []*prescription.Prescription
	err := conn(ctx, r.db).Where("doctor_id = ?", doctorID).Order("date_issued DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PrescriptionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*prescription.Prescription, error) {
	var items []*prescription.Prescription
	err := conn(ctx, r.db).Where("patient_id = ?", patientID).Order("date_issued DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PrescriptionRepository) ListByPharmacist(ctx context.Context, pharmacistID uuid.UUID) ([]*prescription.Prescription, error) {
	var items []*prescription.Prescription
	err := conn(ctx, r.db).Where("pharmacist_id = ?", pharmacistID).Order("date_issued DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PrescriptionRepository) Update(ctx context.Context, p *prescription.Prescription) error {
	res := conn(ctx, r.db).Model(&prescription.Prescription{}).Where("id = ?", p.ID).
		Updates(map[string]any{
			"doctor_id":     p.DoctorID,
			"patient_id":    p.PatientID,
			"medication_id": p.MedicationID,
			"date_issued":   p.DateIssued,
			"dosage":        p.Dosage,
			"notes":         p.Notes,
			"status":        p.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return prescription.ErrPrescriptionNotFound
	}
	return nil
}

func (r *PrescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&prescription.Prescription{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return prescription.ErrPrescriptionNotFound
	}
	return nil
}

func (r *PrescriptionRepository) ExistsForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&prescription.Prescription{}).
		Where("doctor_id = ?", doctorID).Count(&count).Error
	return count > 0, err
}

func (r *PrescriptionRepository) ExistsForPatient(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&prescription.Prescription{}).
		Where("patient_id = ?", patientID).Count(&count).Error
	return count > 0, err
}

func (r *PrescriptionRepository) ExistsForPharmacist(ctx context.Context, pharmacistID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&prescription.Prescription{}).
		Where("pharmacist_id = ?", pharmacistID).Count(&count).Error
	return count > 0, err
}

func (r *PrescriptionRepository) ExistsForMedication(ctx context.Context, medicationID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&prescription.Prescription{}).
		Where("medication_id = ?", medicationID).Count(&count).Error
	return count > 0, err
}
