package handling

import (
	"fmt"
	"strings"
	"time"
)

// Handling unit lifecycle statuses. Only usable units may appear on
// new document lines; ledger history keeps closed units visible.
const (
	HuStatusActive = "ACTIVE"
	HuStatusOpen   = "OPEN"
	HuStatusClosed = "CLOSED"
)

// Hu is a registered handling unit (pallet, tote, box).
type Hu struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Status    string     `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedBy string     `gorm:"type:varchar(100);not null;default:''" json:"created_by,omitempty"`
	ClosedBy  string     `gorm:"type:varchar(100);not null;default:''" json:"closed_by,omitempty"`
	Note      string     `gorm:"type:text;not null;default:''" json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Hu) TableName() string {
	return "hus"
}

// Usable reports whether the unit may be referenced by new lines.
func (h *Hu) Usable() bool {
	return h.Status == HuStatusActive || h.Status == HuStatusOpen
}

// Close marks the unit closed. Closing an already closed unit is a no-op.
func (h *Hu) Close(closedBy, note string) {
	if h.Status == HuStatusClosed {
		return
	}
	now := time.Now()
	h.Status = HuStatusClosed
	h.ClosedAt = &now
	h.ClosedBy = strings.TrimSpace(closedBy)
	if note = strings.TrimSpace(note); note != "" {
		h.Note = note
	}
}

// CodeForID formats the durable code derived from the row identity.
func CodeForID(id int64) string {
	return fmt.Sprintf("HU-%06d", id)
}

// NormalizeCode trims a scanned code; empty means "no handling unit".
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}
