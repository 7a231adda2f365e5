package pharmacist

import (
	"time"

	"github.com/google/uuid"
)

// Pharmacist is the domain profile owned one-to-one by a user holding the
// pharmacist role.
type Pharmacist struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FullName     string    `gorm:"column:full_name;type:varchar(200);not null"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	PharmacyName string    `gorm:"column:pharmacy_name;type:varchar(200);not null"`
}

func (Pharmacist) TableName() string {
	return "clinical.pharmacists"
}

type UpdatePharmacistCommand struct {
	FullName     string
	Email        string
	PharmacyName string
}
