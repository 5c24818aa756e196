package persistence

import (
	"context"
	"errors"

	"github.com/wms/backend/internal/domain/order"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByRef finds an order by its reference
func (r *GormOrderRepository) FindByRef(ctx context.Context, orderRef string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).
		Where("lower(order_ref) = lower(?)", orderRef).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists orders newest first, optionally filtered by doc type
func (r *GormOrderRepository) FindAll(ctx context.Context, docType string, take int) ([]order.Order, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Order("id DESC")
	if docType != "" {
		query = query.Where("doc_type = ?", docType)
	}
	if take > 0 {
		query = query.Limit(take)
	}
	var orders []order.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Lines returns the lines of an order
func (r *GormOrderRepository) Lines(ctx context.Context, orderID int64) ([]order.OrderLine, error) {
	var lines []order.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Create persists an order together with its lines
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order, lines []order.OrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = o.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
