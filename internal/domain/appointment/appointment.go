package appointment

import (
	"time"

	"github.com/google/uuid"
)

// State transitions:
//
//	requested → accepted (owning doctor)
//	requested → refused  (owning doctor)
//
// accepted and refused are terminal; re-entry is rejected.
type Status string

const (
	StatusRequested Status = "requested"
	StatusAccepted  Status = "accepted"
	StatusRefused   Status = "refused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRefused
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Date   time.Time `gorm:"column:date;not null;index"`
	Status Status    `gorm:"column:status;type:varchar(20);not null;default:'requested';index"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusRequested: {StatusAccepted, StatusRefused},
		StatusAccepted:  {},
		StatusRefused:   {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Accept() error {
	if !a.CanTransitionTo(StatusAccepted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusAccepted
	return nil
}

func (a *Appointment) Refuse() error {
	if !a.CanTransitionTo(StatusRefused) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusRefused
	return nil
}

type RequestAppointmentCommand struct {
	DoctorID uuid.UUID
	Date     time.Time
}

type UpdateAppointmentCommand struct {
	DoctorID uuid.UUID
	Date     time.Time
}
