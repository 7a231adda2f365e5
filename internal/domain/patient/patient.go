package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the domain profile owned one-to-one by a user holding the
// patient role, created either at self-registration or by role assignment.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FullName    string    `gorm:"column:full_name;type:varchar(200);not null"`
	Email       string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Phone       string    `gorm:"column:phone;type:varchar(30)"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type UpdatePatientCommand struct {
	FullName    string
	Email       string
	DateOfBirth time.Time
	Phone       string
}
