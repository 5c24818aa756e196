package catalog

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Item represents a stock-keeping unit tracked by the warehouse ledger.
type Item struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Barcode   *string   `gorm:"type:varchar(50);uniqueIndex" json:"barcode,omitempty"`
	Gtin      string    `gorm:"type:varchar(50);not null;default:''" json:"gtin,omitempty"`
	UomCode   string    `gorm:"type:varchar(20);not null;default:'pcs'" json:"uom_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item with a base unit of measure.
func NewItem(name, uomCode string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "item name is required")
	}
	if uomCode == "" {
		uomCode = "pcs"
	}
	return &Item{Name: name, UomCode: uomCode}, nil
}

// SetBarcode assigns the primary scan code. An empty code clears it.
func (i *Item) SetBarcode(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		i.Barcode = nil
		return
	}
	i.Barcode = &code
}

// BarcodeValue returns the primary barcode or an empty string.
func (i *Item) BarcodeValue() string {
	if i.Barcode == nil {
		return ""
	}
	return *i.Barcode
}

// BarcodeVariants returns the scan codes equivalent to code under
// GTIN-13/GTIN-14 zero padding. The original code is always first.
func BarcodeVariants(code string) []string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	variants := []string{code}
	switch {
	case len(code) == 13:
		variants = append(variants, "0"+code)
	case len(code) == 14 && strings.HasPrefix(code, "0"):
		variants = append(variants, code[1:])
	}
	return variants
}
