package catalog

import "context"

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindByBarcode finds an item whose barcode or GTIN matches code exactly
	FindByBarcode(ctx context.Context, code string) (*Item, error)

	// FindByBarcodeVariant tries code and its GTIN zero-padding variants
	FindByBarcodeVariant(ctx context.Context, code string) (*Item, error)

	// FindAll lists items, optionally filtered by a name/barcode search term
	FindAll(ctx context.Context, search string) ([]Item, error)

	// Create persists a new item
	Create(ctx context.Context, item *Item) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id int64) (*Location, error)

	// FindByCode finds a location by exact code, case-insensitively
	FindByCode(ctx context.Context, code string) (*Location, error)

	// FindByName finds locations by name, case-insensitively
	FindByName(ctx context.Context, name string) ([]Location, error)

	// FindAll lists all locations ordered by code, case-insensitively
	FindAll(ctx context.Context) ([]Location, error)

	// Create persists a new location
	Create(ctx context.Context, location *Location) error
}

// PartnerRepository defines the interface for partner persistence
type PartnerRepository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id int64) (*Partner, error)

	// FindAll lists partners, optionally restricted to a role
	FindAll(ctx context.Context, role PartnerRole) ([]Partner, error)

	// Create persists a new partner
	Create(ctx context.Context, partner *Partner) error
}
