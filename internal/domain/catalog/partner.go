package catalog

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// PartnerRole classifies a counterparty for document filtering.
type PartnerRole string

const (
	PartnerRoleSupplier PartnerRole = "SUPPLIER"
	PartnerRoleCustomer PartnerRole = "CUSTOMER"
	PartnerRoleBoth     PartnerRole = "BOTH"
)

// Partner represents a supplier or customer referenced by documents.
type Partner struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string      `gorm:"type:varchar(200);not null" json:"name"`
	Role      PartnerRole `gorm:"type:varchar(20);not null;default:'BOTH'" json:"role"`
	Inn       string      `gorm:"type:varchar(20);not null;default:''" json:"inn,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Partner) TableName() string {
	return "partners"
}

// NewPartner creates a new partner.
func NewPartner(name string, role PartnerRole) (*Partner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER", "partner name is required")
	}
	switch role {
	case PartnerRoleSupplier, PartnerRoleCustomer, PartnerRoleBoth:
	case "":
		role = PartnerRoleBoth
	default:
		return nil, shared.NewDomainError("INVALID_PARTNER", "unknown partner role")
	}
	return &Partner{Name: name, Role: role}, nil
}

// Supplies reports whether the partner can appear on inbound documents.
func (p *Partner) Supplies() bool {
	return p.Role == PartnerRoleSupplier || p.Role == PartnerRoleBoth
}

// Buys reports whether the partner can appear on outbound documents.
func (p *Partner) Buys() bool {
	return p.Role == PartnerRoleCustomer || p.Role == PartnerRoleBoth
}
