package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahtycare/sahty/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := conn(ctx, r.db).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	if err := conn(ctx, r.db).Order("date").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := conn(ctx, r.db).Where("doctor_id = ?", doctorID).Order("date").Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := conn(ctx, r.db).Where("patient_id = ?", patientID).Order("date").Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	res := conn(ctx, r.db).Model(&appointment.Appointment{}).Where("id = ?", a.ID).
		Updates(map[string]any{
			"doctor_id": a.DoctorID,
			"date":      a.Date,
			"status":    a.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&appointment.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) ExistsForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&appointment.Appointment{}).
		Where("doctor_id = ?", doctorID).Count(&count).Error
	return count > 0, err
}

func (r *AppointmentRepository) ExistsForPatient(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&appointment.Appointment{}).
		Where("patient_id = ?", patientID).Count(&count).Error
	return count > 0, err
}
