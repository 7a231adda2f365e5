package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sahtycare/sahty/internal/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create intentionally does not join any caller transaction: an audit row
// persists even when the audited operation rolls back.
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
