package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLineLocations(t *testing.T) {
	tests := []struct {
		name     string
		docType  DocType
		from, to *int64
		fromHu   string
		toHu     string
		code     string
		message  string
	}{
		{name: "inbound without destination", docType: DocTypeInbound,
			code: "MISSING_LOCATION", message: "receiving location is required"},
		{name: "inbound with destination", docType: DocTypeInbound, to: int64Ptr(1)},
		{name: "outbound without any location", docType: DocTypeOutbound},
		{name: "write-off without source", docType: DocTypeWriteOff, to: int64Ptr(1),
			code: "MISSING_LOCATION", message: "source location is required"},
		{name: "write-off with source", docType: DocTypeWriteOff, from: int64Ptr(1)},
		{name: "move without either location", docType: DocTypeMove,
			code: "MISSING_LOCATION", message: "source and destination locations are required"},
		{name: "move without destination", docType: DocTypeMove, from: int64Ptr(1),
			code: "MISSING_LOCATION", message: "source and destination locations are required"},
		{name: "move between distinct locations", docType: DocTypeMove, from: int64Ptr(1), to: int64Ptr(2)},
		{name: "move within one location without units", docType: DocTypeMove, from: int64Ptr(1), to: int64Ptr(1),
			code: "INVALID_LOCATION", message: "source and destination locations must differ"},
		{name: "move within one location out of a unit", docType: DocTypeMove,
			from: int64Ptr(1), to: int64Ptr(1), fromHu: "HU-000001"},
		{name: "move within one location into a unit", docType: DocTypeMove,
			from: int64Ptr(1), to: int64Ptr(1), toHu: "HU-000001"},
		{name: "inventory without counted location", docType: DocTypeInventory,
			code: "MISSING_LOCATION", message: "counted location is required"},
		{name: "inventory with counted location", docType: DocTypeInventory, to: int64Ptr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := CheckLineLocations(tt.docType, tt.from, tt.to, tt.fromHu, tt.toHu)
			if tt.code == "" {
				assert.Nil(t, verr)
				return
			}
			require.NotNil(t, verr)
			assert.Equal(t, tt.code, verr.Code)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestRuleFor(t *testing.T) {
	assert.Equal(t, TypeRule{NeedsTo: true}, RuleFor(DocTypeInbound))
	assert.Equal(t, TypeRule{}, RuleFor(DocTypeOutbound))
	assert.Equal(t, TypeRule{NeedsFrom: true, NeedsTo: true, Distinct: true}, RuleFor(DocTypeMove))
	assert.Equal(t, TypeRule{NeedsFrom: true}, RuleFor(DocTypeWriteOff))
	assert.Equal(t, TypeRule{NeedsTo: true}, RuleFor(DocTypeInventory))
}
