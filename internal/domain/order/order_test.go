package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewOrder(t *testing.T) {
	partnerID := int64(3)
	o, err := NewOrder(" PO-100 ", "IN", &partnerID)
	require.NoError(t, err)
	assert.Equal(t, "PO-100", o.OrderRef)
	assert.Equal(t, "IN", o.DocType)
	assert.Equal(t, &partnerID, o.PartnerID)

	_, err = NewOrder("  ", "IN", nil)
	assert.Error(t, err)

	_, err = NewOrder("PO-100", "", nil)
	assert.Error(t, err)
}

func TestRemainingByItem(t *testing.T) {
	lines := []OrderLine{
		{ItemID: 1, Qty: qty("10")},
		{ItemID: 1, Qty: qty("5")},
		{ItemID: 2, Qty: qty("4")},
		{ItemID: 3, Qty: qty("2")},
	}

	t.Run("nothing shipped leaves everything", func(t *testing.T) {
		remaining := RemainingByItem(lines, nil)
		assert.True(t, remaining[1].Equal(qty("15")))
		assert.True(t, remaining[2].Equal(qty("4")))
		assert.True(t, remaining[3].Equal(qty("2")))
	})

	t.Run("shipped quantities are subtracted", func(t *testing.T) {
		shipped := map[int64]decimal.Decimal{
			1: qty("6"),
			2: qty("4"),
		}
		remaining := RemainingByItem(lines, shipped)
		assert.True(t, remaining[1].Equal(qty("9")))
		assert.True(t, remaining[3].Equal(qty("2")))
		_, ok := remaining[2]
		assert.False(t, ok, "fully covered items are omitted")
	})

	t.Run("overshipped items are omitted", func(t *testing.T) {
		shipped := map[int64]decimal.Decimal{
			1: qty("20"),
			2: qty("5"),
			3: qty("2"),
		}
		remaining := RemainingByItem(lines, shipped)
		assert.Empty(t, remaining)
	})
}
