package catalog

import (
	"context"
	"strings"

	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// Service manages the master data the documents reference.
type Service struct {
	store docapp.Store
}

// NewService creates a master data service.
func NewService(store docapp.Store) *Service {
	return &Service{store: store}
}

// ListItems returns items matching an optional search term.
func (s *Service) ListItems(ctx context.Context, search string) ([]catalog.Item, error) {
	return s.store.Items().FindAll(ctx, strings.TrimSpace(search))
}

// CreateItem registers an item; the barcode is optional but unique.
func (s *Service) CreateItem(ctx context.Context, name, uomCode, barcode, gtin string) (*catalog.Item, error) {
	item, err := catalog.NewItem(name, uomCode)
	if err != nil {
		return nil, err
	}
	item.SetBarcode(barcode)
	item.Gtin = strings.TrimSpace(gtin)
	if err := s.store.Items().Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// FindItemByBarcode resolves an item by barcode or GTIN, trying the
// EAN13/GTIN14 leading-zero variants.
func (s *Service) FindItemByBarcode(ctx context.Context, code string) (*catalog.Item, error) {
	return s.store.Items().FindByBarcodeVariant(ctx, strings.TrimSpace(code))
}

// ListLocations returns all locations in code order.
func (s *Service) ListLocations(ctx context.Context) ([]catalog.Location, error) {
	return s.store.Locations().FindAll(ctx)
}

// CreateLocation registers a storage location.
func (s *Service) CreateLocation(ctx context.Context, code, name string) (*catalog.Location, error) {
	location, err := catalog.NewLocation(code, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Locations().Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// ListPartners returns partners, optionally restricted to a role.
func (s *Service) ListPartners(ctx context.Context, role string) ([]catalog.Partner, error) {
	var r catalog.PartnerRole
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case "":
		r = ""
	case string(catalog.PartnerRoleSupplier):
		r = catalog.PartnerRoleSupplier
	case string(catalog.PartnerRoleCustomer):
		r = catalog.PartnerRoleCustomer
	case string(catalog.PartnerRoleBoth):
		r = catalog.PartnerRoleBoth
	default:
		return nil, shared.NewDomainError("INVALID_ROLE", "unknown partner role")
	}
	return s.store.Partners().FindAll(ctx, r)
}

// CreatePartner registers a counterparty.
func (s *Service) CreatePartner(ctx context.Context, name, role, inn string) (*catalog.Partner, error) {
	partner, err := catalog.NewPartner(name, catalog.PartnerRole(strings.ToUpper(strings.TrimSpace(role))))
	if err != nil {
		return nil, err
	}
	partner.Inn = strings.TrimSpace(inn)
	if err := s.store.Partners().Create(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}
