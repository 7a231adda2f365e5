package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahtycare/sahty/internal/domain/pharmacist"
)

type PharmacistRepository struct {
	db *gorm.DB
}

func NewPharmacistRepository(db *gorm.DB) *PharmacistRepository {
	return &PharmacistRepository{db: db}
}

func (r *PharmacistRepository) Create(ctx context.Context, p *pharmacist.Pharmacist) error {
	p.Email = strings.ToLower(p.Email)
	return conn(ctx, r.db).Create(p).Error
}

func (r *PharmacistRepository) GetByID(ctx context.Context, id uuid.UUID) (*pharmacist.Pharmacist, error) {
	var p pharmacist.Pharmacist
	if err := conn(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pharmacist.ErrPharmacistNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PharmacistRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*pharmacist.Pharmacist, error) {
	var p pharmacist.Pharmacist
	if err := conn(ctx, r.db).First(&p, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pharmacist.ErrPharmacistNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PharmacistRepository) List(ctx context.Context) ([]*pharmacist.Pharmacist, error) {
	var pharmacists []*pharmacist.Pharmacist
	if err := conn(ctx, r.db).Order("full_name").Find(&pharmacists).Error; err != nil {
		return nil, err
	}
	return pharmacists, nil
}

func (r *PharmacistRepository) Update(ctx context.Context, p *pharmacist.Pharmacist) error {
	p.Email = strings.ToLower(p.Email)
	res := conn(ctx, r.db).Model(&pharmacist.Pharmacist{}).Where("id = ?", p.ID).
		Updates(map[string]any{
			"full_name":     p.FullName,
			"email":         p.Email,
			"pharmacy_name": p.PharmacyName,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pharmacist.ErrPharmacistNotFound
	}
	return nil
}

func (r *PharmacistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&pharmacist.Pharmacist{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pharmacist.ErrPharmacistNotFound
	}
	return nil
}

func (r *PharmacistRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&pharmacist.Pharmacist{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PharmacistRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	q := conn(ctx, r.db).Model(&pharmacist.Pharmacist{}).Where("email = ?", strings.ToLower(email))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}
