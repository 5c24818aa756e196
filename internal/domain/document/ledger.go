package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable stock movement. Entries are only ever
// appended; balances are sums over them.
type LedgerEntry struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	DocID      int64           `gorm:"index;not null" json:"doc_id"`
	ItemID     int64           `gorm:"index;not null" json:"item_id"`
	LocationID int64           `gorm:"index;not null" json:"location_id"`
	QtyDelta   decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"qty_delta"`
	HuCode     string          `gorm:"type:varchar(50);not null;default:'';index" json:"hu_code,omitempty"`
	Timestamp  time.Time       `gorm:"not null" json:"timestamp"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// StockKey identifies one balance bucket: an item at a location under
// an optional handling unit.
type StockKey struct {
	ItemID     int64
	LocationID int64
	Hu         string
}

// StockRow is an aggregated non-zero balance with display labels.
type StockRow struct {
	ItemID       int64           `json:"item_id"`
	ItemName     string          `json:"item_name"`
	Barcode      string          `json:"barcode,omitempty"`
	UomCode      string          `json:"uom_code,omitempty"`
	LocationID   int64           `json:"location_id"`
	LocationCode string          `json:"location_code"`
	Qty          decimal.Decimal `json:"qty"`
}

// HuStockRow is a non-zero balance held under a handling unit.
type HuStockRow struct {
	HuCode       string          `json:"hu_code"`
	ItemID       int64           `json:"item_id"`
	ItemName     string          `json:"item_name"`
	LocationID   int64           `json:"location_id"`
	LocationCode string          `json:"location_code"`
	Qty          decimal.Decimal `json:"qty"`
}

// LocationBalance is a per-location total for one item.
type LocationBalance struct {
	LocationID   int64           `json:"location_id"`
	LocationCode string          `json:"location_code"`
	Qty          decimal.Decimal `json:"qty"`
}

// HuBalance is a per-handling-unit total for one item.
type HuBalance struct {
	HuCode       string          `json:"hu_code"`
	LocationID   int64           `json:"location_id"`
	LocationCode string          `json:"location_code"`
	Qty          decimal.Decimal `json:"qty"`
}
