package catalog

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Location represents a storage bin or zone inside the warehouse.
type Location struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"type:varchar(200);not null;default:''" json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location with a unique code.
func NewLocation(code, name string) (*Location, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "location code is required")
	}
	return &Location{Code: code, Name: strings.TrimSpace(name)}, nil
}
