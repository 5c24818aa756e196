package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// Order is an expected receipt or shipment against which documents are filled.
type Order struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef  string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"order_ref"`
	DocType   string     `gorm:"type:varchar(10);not null" json:"doc_type"`
	PartnerID *int64     `gorm:"index" json:"partner_id,omitempty"`
	Comment   string     `gorm:"type:text;not null;default:''" json:"comment,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one expected item quantity on an order.
type OrderLine struct {
	ID      int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64           `gorm:"index;not null" json:"order_id"`
	ItemID  int64           `gorm:"not null" json:"item_id"`
	Qty     decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"qty"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrder creates a new order for the given document type.
func NewOrder(orderRef, docType string, partnerID *int64) (*Order, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "order reference is required")
	}
	if docType == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "order document type is required")
	}
	return &Order{OrderRef: orderRef, DocType: docType, PartnerID: partnerID}, nil
}

// RemainingByItem subtracts shipped totals from ordered totals per item.
// Items fully covered are omitted.
func RemainingByItem(lines []OrderLine, shipped map[int64]decimal.Decimal) map[int64]decimal.Decimal {
	ordered := make(map[int64]decimal.Decimal, len(lines))
	for _, l := range lines {
		ordered[l.ItemID] = ordered[l.ItemID].Add(l.Qty)
	}
	remaining := make(map[int64]decimal.Decimal, len(ordered))
	for itemID, qty := range ordered {
		rest := qty.Sub(shipped[itemID])
		if rest.IsPositive() {
			remaining[itemID] = rest
		}
	}
	return remaining
}
