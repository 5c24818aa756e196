package persistence

import (
	"context"
	"errors"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBarcode finds an item whose barcode or GTIN matches code exactly
func (r *GormItemRepository) FindByBarcode(ctx context.Context, code string) (*catalog.Item, error) {
	var item catalog.Item
	err := r.db.WithContext(ctx).
		Where("barcode = ? OR (gtin <> '' AND gtin = ?)", code, code).
		Order("id").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBarcodeVariant tries code and its GTIN zero-padding variants
func (r *GormItemRepository) FindByBarcodeVariant(ctx context.Context, code string) (*catalog.Item, error) {
	for _, variant := range catalog.BarcodeVariants(code) {
		item, err := r.FindByBarcode(ctx, variant)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll lists items, optionally filtered by a name/barcode search term
func (r *GormItemRepository) FindAll(ctx context.Context, search string) ([]catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Item{}).Order("name")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("lower(name) LIKE lower(?) OR barcode LIKE ? OR gtin LIKE ?", pattern, pattern, pattern)
	}
	var items []catalog.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GormLocationRepository implements catalog.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id int64) (*catalog.Location, error) {
	var location catalog.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByCode finds a location by exact code, case-insensitively
func (r *GormLocationRepository) FindByCode(ctx context.Context, code string) (*catalog.Location, error) {
	var location catalog.Location
	err := r.db.WithContext(ctx).
		Where("lower(code) = lower(?)", code).
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByName finds locations by name, case-insensitively
func (r *GormLocationRepository) FindByName(ctx context.Context, name string) ([]catalog.Location, error) {
	var locations []catalog.Location
	err := r.db.WithContext(ctx).
		Where("name <> '' AND lower(name) = lower(?)", name).
		Order("lower(code)").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// FindAll lists all locations ordered by code, case-insensitively
func (r *GormLocationRepository) FindAll(ctx context.Context) ([]catalog.Location, error) {
	var locations []catalog.Location
	if err := r.db.WithContext(ctx).Order("lower(code)").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Create persists a new location
func (r *GormLocationRepository) Create(ctx context.Context, location *catalog.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

// GormPartnerRepository implements catalog.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id int64) (*catalog.Partner, error) {
	var partner catalog.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// FindAll lists partners, optionally restricted to a role
func (r *GormPartnerRepository) FindAll(ctx context.Context, role catalog.PartnerRole) ([]catalog.Partner, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Partner{}).Order("name")
	switch role {
	case "":
	case catalog.PartnerRoleBoth:
		query = query.Where("role = ?", role)
	default:
		query = query.Where("role IN ?", []catalog.PartnerRole{role, catalog.PartnerRoleBoth})
	}
	var partners []catalog.Partner
	if err := query.Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// Create persists a new partner
func (r *GormPartnerRepository) Create(ctx context.Context, partner *catalog.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}
