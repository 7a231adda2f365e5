package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the domain profile owned one-to-one by a user holding the doctor
// role. UserID is the authoritative link; Email is denormalized for display
// and kept in sync when the profile or the account changes.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FullName   string    `gorm:"column:full_name;type:varchar(200);not null"`
	Speciality string    `gorm:"column:speciality;type:varchar(100);not null"`
	Email      string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

type UpdateDoctorCommand struct {
	FullName   string
	Speciality string
	Email      string
}
