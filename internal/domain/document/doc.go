package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocType identifies the stock effect of a document.
type DocType string

const (
	DocTypeInbound   DocType = "IN"
	DocTypeOutbound  DocType = "OUT"
	DocTypeMove      DocType = "MOVE"
	DocTypeWriteOff  DocType = "WO"
	DocTypeInventory DocType = "INV"
)

// DocStatus is the document lifecycle state.
type DocStatus string

const (
	DocStatusDraft  DocStatus = "DRAFT"
	DocStatusClosed DocStatus = "CLOSED"
)

// Doc is a warehouse document header. Drafts are freely editable;
// closing posts ledger entries and freezes the document forever.
type Doc struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DocRef      string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_docs_ref_type" json:"doc_ref"`
	Type        DocType    `gorm:"type:varchar(10);not null;uniqueIndex:idx_docs_ref_type" json:"type"`
	Status      DocStatus  `gorm:"type:varchar(10);not null;default:'DRAFT'" json:"status"`
	PartnerID   *int64     `gorm:"index" json:"partner_id,omitempty"`
	OrderID     *int64     `gorm:"index" json:"order_id,omitempty"`
	OrderRef    string     `gorm:"type:varchar(100);not null;default:''" json:"order_ref,omitempty"`
	ShippingRef string     `gorm:"type:varchar(50);not null;default:''" json:"shipping_ref,omitempty"`
	Comment     string     `gorm:"type:text;not null;default:''" json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Doc) TableName() string {
	return "docs"
}

// IsDraft reports whether the document can still be edited.
func (d *Doc) IsDraft() bool {
	return d.Status == DocStatusDraft
}

// DocLine is one item movement inside a document.
type DocLine struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	DocID          int64            `gorm:"index;not null" json:"doc_id"`
	ItemID         int64            `gorm:"not null" json:"item_id"`
	Qty            decimal.Decimal  `gorm:"type:decimal(18,3);not null" json:"qty"`
	QtyInput       *decimal.Decimal `gorm:"type:decimal(18,3)" json:"qty_input,omitempty"`
	UomCode        string           `gorm:"type:varchar(20);not null;default:''" json:"uom_code,omitempty"`
	FromLocationID *int64           `json:"from_location_id,omitempty"`
	ToLocationID   *int64           `json:"to_location_id,omitempty"`
	FromHu         string           `gorm:"type:varchar(50);not null;default:''" json:"from_hu,omitempty"`
	ToHu           string           `gorm:"type:varchar(50);not null;default:''" json:"to_hu,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TableName returns the table name for GORM
func (DocLine) TableName() string {
	return "doc_lines"
}

// DocLineView is a line joined with item and location labels for
// display and for validation messages.
type DocLineView struct {
	ID               int64            `json:"id"`
	DocID            int64            `json:"doc_id"`
	ItemID           int64            `json:"item_id"`
	ItemName         string           `json:"item_name"`
	Barcode          string           `json:"barcode,omitempty"`
	Qty              decimal.Decimal  `json:"qty"`
	QtyInput         *decimal.Decimal `json:"qty_input,omitempty"`
	UomCode          string           `json:"uom_code,omitempty"`
	FromLocationID   *int64           `json:"from_location_id,omitempty"`
	FromLocationCode string           `json:"from_location_code,omitempty"`
	ToLocationID     *int64           `json:"to_location_id,omitempty"`
	ToLocationCode   string           `json:"to_location_code,omitempty"`
	FromHu           string           `json:"from_hu,omitempty"`
	ToHu             string           `json:"to_hu,omitempty"`
}

// ParseDocType maps wire and UI spellings onto a DocType.
func ParseDocType(s string) (DocType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN", "INBOUND", "RECEIVE":
		return DocTypeInbound, true
	case "OUT", "OUTBOUND", "SHIP":
		return DocTypeOutbound, true
	case "MOVE", "MOV", "TRANSFER":
		return DocTypeMove, true
	case "WO", "WRITEOFF", "WRITE_OFF":
		return DocTypeWriteOff, true
	case "INV", "INVENTORY":
		return DocTypeInventory, true
	}
	return "", false
}

// SyncAllowed reports whether scanner terminals may create documents
// of this type. Write-offs and inventory counts stay back-office only.
func (t DocType) SyncAllowed() bool {
	switch t {
	case DocTypeInbound, DocTypeOutbound, DocTypeMove:
		return true
	}
	return false
}

// RefPrefix returns the document reference prefix for the type.
func (t DocType) RefPrefix() string {
	switch t {
	case DocTypeInbound:
		return "IN"
	case DocTypeOutbound:
		return "OUT"
	case DocTypeMove:
		return "MOV"
	case DocTypeWriteOff:
		return "WO"
	case DocTypeInventory:
		return "INV"
	}
	return "DOC"
}
