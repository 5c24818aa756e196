package sync

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/document"
)

// Event types recorded for replay detection.
const (
	EventTypeDocCreate = "DOC_CREATE"
	EventTypeDocLine   = "DOC_LINE"
	EventTypeDocClose  = "DOC_CLOSE"
	EventTypeOp        = "OP"
)

// ApiDoc links a terminal-generated document UID to the server-side
// document, with the header context the terminal has sent so far.
type ApiDoc struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	DocUID         string           `gorm:"column:doc_uid;type:varchar(64);not null;uniqueIndex" json:"doc_uid"`
	DocID          int64            `gorm:"index;not null" json:"doc_id"`
	DocRef         string           `gorm:"type:varchar(100);not null" json:"doc_ref"`
	DocType        document.DocType `gorm:"type:varchar(10);not null" json:"doc_type"`
	Status         string           `gorm:"type:varchar(10);not null;default:'DRAFT'" json:"status"`
	PartnerID      *int64           `json:"partner_id,omitempty"`
	FromLocationID *int64           `json:"from_location_id,omitempty"`
	ToLocationID   *int64           `json:"to_location_id,omitempty"`
	FromHu         string           `gorm:"type:varchar(50);not null;default:''" json:"from_hu,omitempty"`
	ToHu           string           `gorm:"type:varchar(50);not null;default:''" json:"to_hu,omitempty"`
	DeviceID       string           `gorm:"type:varchar(100);not null;default:''" json:"device_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName returns the table name for GORM
func (ApiDoc) TableName() string {
	return "api_docs"
}

// ApiEvent is a processed terminal event. The unique event ID makes
// replays of the same upload observable as no-ops.
type ApiEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"event_id"`
	EventType  string    `gorm:"type:varchar(20);not null" json:"event_type"`
	DocUID     string    `gorm:"column:doc_uid;type:varchar(64);not null;default:'';index" json:"doc_uid,omitempty"`
	DeviceID   string    `gorm:"type:varchar(100);not null;default:''" json:"device_id,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// TableName returns the table name for GORM
func (ApiEvent) TableName() string {
	return "api_events"
}

// Matches reports whether a stored event corresponds to the same
// logical operation, making the request a replay rather than a clash.
func (e *ApiEvent) Matches(eventType, docUID string) bool {
	return e.EventType == eventType && strings.EqualFold(e.DocUID, docUID)
}
