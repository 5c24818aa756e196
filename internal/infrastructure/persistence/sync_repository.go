package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	syncdomain "github.com/wms/backend/internal/domain/sync"
	"gorm.io/gorm"
)

// GormSyncRepository implements sync.Repository using GORM
type GormSyncRepository struct {
	db *gorm.DB
}

// NewGormSyncRepository creates a new GormSyncRepository
func NewGormSyncRepository(db *gorm.DB) *GormSyncRepository {
	return &GormSyncRepository{db: db}
}

// CreateApiDoc registers a terminal document UID
func (r *GormSyncRepository) CreateApiDoc(ctx context.Context, doc *syncdomain.ApiDoc) error {
	err := r.db.WithContext(ctx).Create(doc).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// FindApiDoc finds the registration for a terminal UID
func (r *GormSyncRepository) FindApiDoc(ctx context.Context, docUID string) (*syncdomain.ApiDoc, error) {
	var doc syncdomain.ApiDoc
	err := r.db.WithContext(ctx).
		Where("upper(doc_uid) = upper(?)", docUID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// UpdateApiDoc persists enriched header context
func (r *GormSyncRepository) UpdateApiDoc(ctx context.Context, doc *syncdomain.ApiDoc) error {
	return r.db.WithContext(ctx).
		Model(&syncdomain.ApiDoc{}).
		Where("id = ?", doc.ID).
		Updates(map[string]any{
			"partner_id":       doc.PartnerID,
			"from_location_id": doc.FromLocationID,
			"to_location_id":   doc.ToLocationID,
			"from_hu":          doc.FromHu,
			"to_hu":            doc.ToHu,
		}).Error
}

// UpdateApiDocStatus transitions the registration status
func (r *GormSyncRepository) UpdateApiDocStatus(ctx context.Context, docUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&syncdomain.ApiDoc{}).
		Where("upper(doc_uid) = upper(?)", docUID).
		Update("status", status).Error
}

// FindEvent finds a processed event by its ID
func (r *GormSyncRepository) FindEvent(ctx context.Context, eventID string) (*syncdomain.ApiEvent, error) {
	var event syncdomain.ApiEvent
	if err := r.db.WithContext(ctx).First(&event, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// RecordEvent stores a processed event
func (r *GormSyncRepository) RecordEvent(ctx context.Context, event *syncdomain.ApiEvent) error {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}
