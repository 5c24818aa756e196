package persistence

import (
	"context"
	"errors"

	"github.com/wms/backend/internal/domain/handling"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormHuRepository implements handling.Repository using GORM
type GormHuRepository struct {
	db *gorm.DB
}

// NewGormHuRepository creates a new GormHuRepository
func NewGormHuRepository(db *gorm.DB) *GormHuRepository {
	return &GormHuRepository{db: db}
}

// Create inserts a unit with its placeholder code and fills in the ID
func (r *GormHuRepository) Create(ctx context.Context, hu *handling.Hu) error {
	return r.db.WithContext(ctx).Create(hu).Error
}

// UpdateCode replaces the placeholder code after the ID is known
func (r *GormHuRepository) UpdateCode(ctx context.Context, id int64, code string) error {
	return r.db.WithContext(ctx).
		Model(&handling.Hu{}).
		Where("id = ?", id).
		Update("code", code).Error
}

// FindByCode finds a unit by its code
func (r *GormHuRepository) FindByCode(ctx context.Context, code string) (*handling.Hu, error) {
	var hu handling.Hu
	err := r.db.WithContext(ctx).
		Where("upper(code) = upper(?)", code).
		First(&hu).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &hu, nil
}

// FindAll lists units newest first, optionally filtered by a code search
func (r *GormHuRepository) FindAll(ctx context.Context, search string, take int) ([]handling.Hu, error) {
	query := r.db.WithContext(ctx).Model(&handling.Hu{}).Order("id DESC")
	if search != "" {
		query = query.Where("upper(code) LIKE upper(?)", "%"+search+"%")
	}
	if take > 0 {
		query = query.Limit(take)
	}
	var hus []handling.Hu
	if err := query.Find(&hus).Error; err != nil {
		return nil, err
	}
	return hus, nil
}

// Update persists status changes of an existing unit
func (r *GormHuRepository) Update(ctx context.Context, hu *handling.Hu) error {
	return r.db.WithContext(ctx).
		Model(&handling.Hu{}).
		Where("id = ?", hu.ID).
		Updates(map[string]any{
			"status":    hu.Status,
			"closed_at": hu.ClosedAt,
			"closed_by": hu.ClosedBy,
			"note":      hu.Note,
		}).Error
}
