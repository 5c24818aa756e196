package stock

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// ItemStock is the full availability picture of one item: per-location
// totals plus the share held under handling units.
type ItemStock struct {
	Item      *catalog.Item              `json:"item"`
	Total     decimal.Decimal            `json:"total"`
	Locations []document.LocationBalance `json:"locations"`
	Hus       []document.HuBalance       `json:"hus,omitempty"`
}

// Service answers stock questions from the ledger.
type Service struct {
	store docapp.Store
}

// NewService creates a stock query service.
func NewService(store docapp.Store) *Service {
	return &Service{store: store}
}

// Stock lists all non-zero balances grouped by item and location.
func (s *Service) Stock(ctx context.Context, search string) ([]document.StockRow, error) {
	return s.store.Ledger().Stock(ctx, search)
}

// HuStock lists all non-zero balances held under handling units.
func (s *Service) HuStock(ctx context.Context) ([]document.HuStockRow, error) {
	return s.store.Ledger().HuStock(ctx)
}

// ByBarcode resolves a scanned code through the GTIN zero-padding
// variants and returns the item's availability.
func (s *Service) ByBarcode(ctx context.Context, code string) (*ItemStock, error) {
	item, err := s.store.Items().FindByBarcodeVariant(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNKNOWN_BARCODE", "no item with barcode "+code)
		}
		return nil, err
	}

	locations, err := s.store.Ledger().ItemBalancesByLocation(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	hus, err := s.store.Ledger().ItemBalancesByHu(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, b := range locations {
		total = total.Add(b.Qty)
	}
	return &ItemStock{Item: item, Total: total, Locations: locations, Hus: hus}, nil
}
