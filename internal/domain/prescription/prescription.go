package prescription

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State transitions:
//
//	pending → accepted (assigned pharmacist)
//	pending → refused  (assigned pharmacist)
//
// Accepting an already-accepted prescription is a no-op rather than an
// error; any other re-entry is rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// ParseStatus resolves a status string case-insensitively. Unknown values
// are an error: the caller must reject them, never coerce.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

type Prescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID     uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	PatientID    uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	PharmacistID uuid.UUID `gorm:"column:pharmacist_id;type:uuid;not null;index"`
	MedicationID uuid.UUID `gorm:"column:medication_id;type:uuid;not null;index"`

	DateIssued time.Time `gorm:"column:date_issued;not null"`
	Dosage     string    `gorm:"column:dosage;type:varchar(200);not null"`
	Notes      string    `gorm:"column:notes;type:text"`
	Status     Status    `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

func (p *Prescription) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:  {StatusAccepted, StatusRefused},
		StatusAccepted: {},
		StatusRefused:  {},
	}

	for _, s := range allowed[p.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

type CreatePrescriptionCommand struct {
	PatientID    uuid.UUID
	PharmacistID uuid.UUID
	MedicationID uuid.UUID
	DateIssued   time.Time
	Dosage       string
	Notes        string
}

type UpdatePrescriptionCommand struct {
	PatientID    uuid.UUID
	MedicationID uuid.UUID
	DateIssued   time.Time
	Dosage       string
	Notes        string
	Status       string // raw; parsed and validated by the service
}
