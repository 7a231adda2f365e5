package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an append-only per-user message. Workflows emit one when
// an appointment or prescription changes hands; recipients flip IsRead.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	UserID  uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Title   string    `gorm:"column:title;type:varchar(200);not null"`
	Message string    `gorm:"column:message;type:text;not null"`
	LinkURL string    `gorm:"column:link_url;type:varchar(500)"`
	IsRead  bool      `gorm:"column:is_read;default:false;index"`
}

func (Notification) TableName() string {
	return "messaging.notifications"
}
