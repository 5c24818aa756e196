package order

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/order"
	"github.com/wms/backend/internal/domain/shared"
)

// LineInput is one expected quantity on a new order.
type LineInput struct {
	ItemID int64
	Qty    decimal.Decimal
}

// Progress pairs an order line with what closed documents already
// fulfilled against it.
type Progress struct {
	ItemID  int64           `json:"item_id"`
	Ordered decimal.Decimal `json:"ordered"`
	Shipped decimal.Decimal `json:"shipped"`
}

// Service manages orders and their fulfilment state.
type Service struct {
	store docapp.Store
}

// NewService creates an order service.
func NewService(store docapp.Store) *Service {
	return &Service{store: store}
}

// List returns orders newest first, optionally filtered by doc type.
func (s *Service) List(ctx context.Context, docType string, take int) ([]order.Order, error) {
	if take <= 0 {
		take = 200
	}
	return s.store.Orders().FindAll(ctx, docType, take)
}

// Create registers an order with its lines atomically.
func (s *Service) Create(ctx context.Context, orderRef, docType string, partnerID *int64, lines []LineInput) (*order.Order, error) {
	parsed, ok := document.ParseDocType(docType)
	if !ok {
		return nil, shared.NewDomainError("INVALID_TYPE", "unknown document type")
	}
	o, err := order.NewOrder(orderRef, string(parsed), partnerID)
	if err != nil {
		return nil, err
	}

	var orderLines []order.OrderLine
	for _, l := range lines {
		if !l.Qty.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QTY", "order line quantity must be positive")
		}
		orderLines = append(orderLines, order.OrderLine{ItemID: l.ItemID, Qty: l.Qty})
	}

	err = s.store.InTransaction(ctx, func(st docapp.Store) error {
		if partnerID != nil {
			if _, err := st.Partners().FindByID(ctx, *partnerID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("UNKNOWN_PARTNER", "partner not found")
				}
				return err
			}
		}
		if _, err := st.Orders().FindByRef(ctx, o.OrderRef); err == nil {
			return shared.NewDomainError("ORDER_REF_EXISTS", "order reference is already in use")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return st.Orders().Create(ctx, o, orderLines)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns an order with its fulfilment progress and the documents
// linked to it.
func (s *Service) Get(ctx context.Context, orderID int64) (*order.Order, []Progress, []document.Doc, error) {
	o, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, nil, shared.NewDomainError("UNKNOWN_ORDER", "order not found")
		}
		return nil, nil, nil, err
	}
	lines, err := s.store.Orders().Lines(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	shipped, err := s.store.Docs().ShippedTotalsByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	progress := make([]Progress, 0, len(lines))
	for _, l := range lines {
		progress = append(progress, Progress{ItemID: l.ItemID, Ordered: l.Qty, Shipped: shipped[l.ItemID]})
	}
	docs, err := s.store.Docs().FindByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	return o, progress, docs, nil
}
