package document

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

func TestNewCloseCheckStructural(t *testing.T) {
	t.Run("empty document is rejected", func(t *testing.T) {
		check := NewCloseCheck(&Doc{Type: DocTypeInbound}, nil)
		require.Len(t, check.Errors, 1)
		assert.Contains(t, check.Errors[0], "no lines")
		assert.False(t, check.Passed(false))
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, ItemName: "Bolt", Qty: qty("0"), ToLocationID: int64Ptr(1)},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeInbound}, lines)
		require.Len(t, check.Errors, 1)
		assert.Contains(t, check.Errors[0], "positive")
	})

	t.Run("inbound requires a receiving location", func(t *testing.T) {
		lines := []DocLineView{{ItemID: 1, Qty: qty("5")}}
		check := NewCloseCheck(&Doc{Type: DocTypeInbound}, lines)
		require.Len(t, check.Errors, 1)
		assert.Contains(t, check.Errors[0], "receiving location")
	})

	t.Run("move requires both locations", func(t *testing.T) {
		lines := []DocLineView{{ItemID: 1, Qty: qty("5"), FromLocationID: int64Ptr(1)}}
		check := NewCloseCheck(&Doc{Type: DocTypeMove}, lines)
		require.Len(t, check.Errors, 1)
		assert.Contains(t, check.Errors[0], "source and destination")
	})

	t.Run("move within one location without units is rejected", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("5"), FromLocationID: int64Ptr(1), ToLocationID: int64Ptr(1)},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeMove}, lines)
		require.Len(t, check.Errors, 1)
		assert.Contains(t, check.Errors[0], "must differ")
	})

	t.Run("move within one location between unit and shelf is fine", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("5"), FromLocationID: int64Ptr(1), ToLocationID: int64Ptr(1), FromHu: "HU-000001"},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeMove}, lines)
		assert.Empty(t, check.Errors)
	})

	t.Run("write-off aggregates source demand", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("3"), FromLocationID: int64Ptr(7)},
			{ItemID: 1, Qty: qty("4"), FromLocationID: int64Ptr(7)},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeWriteOff}, lines)
		require.Empty(t, check.Errors)
		key := StockKey{ItemID: 1, LocationID: 7}
		assert.True(t, check.Outgoing[key].Equal(qty("7")))
	})

	t.Run("outbound without source goes to auto allocation", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("3")},
			{ItemID: 1, Qty: qty("2")},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeOutbound, PartnerID: int64Ptr(1)}, lines)
		require.Empty(t, check.Errors)
		assert.True(t, check.AutoAllocate)
		assert.True(t, check.OutboundByItem[1].Equal(qty("5")))
		assert.Empty(t, check.Outgoing)
	})

	t.Run("inventory aggregates counted totals per bucket", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("2"), ToLocationID: int64Ptr(3)},
			{ItemID: 1, Qty: qty("2.5"), ToLocationID: int64Ptr(3)},
			{ItemID: 1, Qty: qty("1"), ToLocationID: int64Ptr(4)},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeInventory}, lines)
		require.Empty(t, check.Errors)
		assert.True(t, check.InventoryTargets[StockKey{ItemID: 1, LocationID: 3}].Equal(qty("4.5")))
		assert.True(t, check.InventoryTargets[StockKey{ItemID: 1, LocationID: 4}].Equal(qty("1")))
	})

	t.Run("header unit inferred from lines", func(t *testing.T) {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("2"), ToLocationID: int64Ptr(3), ToHu: "HU-000001"},
			{ItemID: 2, Qty: qty("1"), ToLocationID: int64Ptr(3), ToHu: "HU-000001"},
		}
		check := NewCloseCheck(&Doc{Type: DocTypeInbound}, lines)
		assert.Equal(t, "HU-000001", check.DocHu)
		assert.True(t, check.HeaderHuInferred)
	})
}

func TestRequirePartner(t *testing.T) {
	check := NewCloseCheck(&Doc{Type: DocTypeOutbound}, []DocLineView{
		{ItemID: 1, Qty: qty("1")},
	})
	check.RequirePartner()
	require.Len(t, check.Errors, 1)
	assert.Contains(t, check.Errors[0], "partner")

	check = NewCloseCheck(&Doc{Type: DocTypeOutbound, PartnerID: int64Ptr(5)}, []DocLineView{
		{ItemID: 1, Qty: qty("1")},
	})
	check.RequirePartner()
	assert.Empty(t, check.Errors)
}

func TestCheckSourceBalance(t *testing.T) {
	lines := []DocLineView{
		{ItemID: 1, ItemName: "Bolt", Qty: qty("10"), FromLocationID: int64Ptr(1), FromLocationCode: "A1"},
	}
	check := NewCloseCheck(&Doc{Type: DocTypeWriteOff}, lines)
	key := StockKey{ItemID: 1, LocationID: 1}

	check.CheckSourceBalance(key, qty("10"), "Bolt", "A1")
	assert.Empty(t, check.Errors)

	check.CheckSourceBalance(key, qty("7"), "Bolt", "A1")
	require.Len(t, check.Errors, 1)
	assert.Contains(t, check.Errors[0], "Bolt")
	assert.Contains(t, check.Errors[0], "required 10")
	assert.Contains(t, check.Errors[0], "available 7")
	assert.Empty(t, check.Warnings)

	// A shortage blocks posting even when negative stock is tolerated.
	assert.False(t, check.Passed(true))
	assert.False(t, check.Passed(false))
}

func TestCheckOutboundTotal(t *testing.T) {
	lines := []DocLineView{
		{ItemID: 1, ItemName: "Bolt", Qty: qty("6")},
	}
	check := NewCloseCheck(&Doc{Type: DocTypeOutbound, PartnerID: int64Ptr(1)}, lines)

	check.CheckOutboundTotal(1, qty("6"), "Bolt")
	assert.Empty(t, check.Errors)

	check.CheckOutboundTotal(1, qty("4"), "Bolt")
	require.Len(t, check.Errors, 1)
	assert.Contains(t, check.Errors[0], "insufficient total stock")
	assert.False(t, check.Passed(true))
}

func TestReferencedHus(t *testing.T) {
	lines := []DocLineView{
		{ItemID: 1, Qty: qty("2"), FromLocationID: int64Ptr(1), ToLocationID: int64Ptr(2), FromHu: "hu-000002"},
		{ItemID: 2, Qty: qty("1"), FromLocationID: int64Ptr(1), ToLocationID: int64Ptr(2), ToHu: "HU-000001"},
	}
	check := NewCloseCheck(&Doc{Type: DocTypeMove}, lines)
	assert.Equal(t, []string{"HU-000001", "HU-000002"}, check.ReferencedHus())

	check = NewCloseCheck(&Doc{Type: DocTypeWriteOff}, []DocLineView{
		{ItemID: 1, Qty: qty("2"), FromLocationID: int64Ptr(1)},
	})
	assert.Empty(t, check.ReferencedHus())
}

func TestCheckHuUsable(t *testing.T) {
	check := NewCloseCheck(&Doc{Type: DocTypeMove}, []DocLineView{
		{ItemID: 1, Qty: qty("2"), FromLocationID: int64Ptr(1), ToLocationID: int64Ptr(2), ToHu: "HU-000001"},
	})

	check.CheckHuUsable("HU-000001", true)
	assert.Empty(t, check.Errors)

	check.CheckHuUsable("HU-000001", false)
	require.Len(t, check.Errors, 1)
	assert.Contains(t, check.Errors[0], "HU-000001")
	assert.Contains(t, check.Errors[0], "not usable")
	assert.False(t, check.Passed(false))
}

func TestProjectHuLocations(t *testing.T) {
	move := func(fromLoc, toLoc int64) *CloseCheck {
		lines := []DocLineView{
			{ItemID: 1, Qty: qty("5"), FromLocationID: &fromLoc, ToLocationID: &toLoc, FromHu: "HU-000001"},
		}
		return NewCloseCheck(&Doc{Type: DocTypeMove}, lines)
	}

	t.Run("full carry leaves one location", func(t *testing.T) {
		check := move(1, 2)
		require.Empty(t, check.Errors)
		check.ProjectHuLocations([]HuStockRow{
			{HuCode: "HU-000001", LocationID: 1, LocationCode: "A1", Qty: qty("5")},
		})
		assert.Empty(t, check.Errors)
	})

	t.Run("partial carry would span locations", func(t *testing.T) {
		check := move(1, 2)
		require.Empty(t, check.Errors)
		check.ProjectHuLocations([]HuStockRow{
			{HuCode: "HU-000001", LocationID: 1, LocationCode: "A1", Qty: qty("8")},
		})
		require.Len(t, check.Errors, 1)
		assert.Contains(t, check.Errors[0], "HU-000001")
		assert.Contains(t, check.Errors[0], "span multiple locations")
	})

	t.Run("residue within tolerance is ignored", func(t *testing.T) {
		check := move(1, 2)
		check.ProjectHuLocations([]HuStockRow{
			{HuCode: "HU-000001", LocationID: 1, LocationCode: "A1", Qty: qty("5.0000005")},
		})
		assert.Empty(t, check.Errors)
	})

	t.Run("untouched units are not projected", func(t *testing.T) {
		check := move(1, 2)
		check.ProjectHuLocations([]HuStockRow{
			{HuCode: "HU-000001", LocationID: 1, LocationCode: "A1", Qty: qty("5")},
			{HuCode: "HU-000099", LocationID: 3, LocationCode: "C1", Qty: qty("4")},
			{HuCode: "HU-000099", LocationID: 4, LocationCode: "D1", Qty: qty("4")},
		})
		assert.Empty(t, check.Errors)
	})
}

func TestInventoryDelta(t *testing.T) {
	delta, post := InventoryDelta(qty("4"), qty("10"))
	assert.True(t, post)
	assert.True(t, delta.Equal(qty("-6")))

	delta, post = InventoryDelta(qty("10"), qty("4"))
	assert.True(t, post)
	assert.True(t, delta.Equal(qty("6")))

	_, post = InventoryDelta(qty("10"), qty("10"))
	assert.False(t, post)

	_, post = InventoryDelta(qty("10.0000005"), qty("10"))
	assert.False(t, post)

	_, post = InventoryDelta(qty("10.000002"), qty("10"))
	assert.True(t, post)
}
