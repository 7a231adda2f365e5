package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication is an independent catalog entity referenced by prescriptions.
type Medication struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name        string `gorm:"column:name;type:varchar(255);not null;index"`
	Stock       int    `gorm:"column:stock;not null;default:0;check:stock >= 0"`
	Description string `gorm:"column:description;type:text"`
}

func (Medication) TableName() string {
	return "clinical.medications"
}

type CreateMedicationCommand struct {
	Name        string
	Stock       int
	Description string
}

type UpdateMedicationCommand struct {
	Name        string
	Stock       int
	Description string
}
