package sync

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseOpEvent(t *testing.T) {
	t.Run("snake_case fields", func(t *testing.T) {
		e, err := ParseOpEvent([]byte(`{
			"event_id": "ev-1",
			"device_id": "tsd-07",
			"op": "MOVE",
			"doc_ref": "TSD-1",
			"barcode": "4006381333931",
			"qty": "2.5",
			"from_loc": "A1",
			"to_loc": "B1",
			"hu_code": "HU-000001",
			"from_location_id": 3,
			"schema_version": 2
		}`))
		require.NoError(t, err)
		assert.Equal(t, "ev-1", e.EventID)
		assert.Equal(t, "tsd-07", e.DeviceID)
		assert.Equal(t, "MOVE", e.Op)
		assert.Equal(t, "TSD-1", e.DocRef)
		assert.True(t, e.Qty.Equal(dec("2.5")))
		assert.Equal(t, "A1", e.FromLoc)
		assert.Equal(t, "B1", e.ToLoc)
		assert.Equal(t, "HU-000001", e.HuCode)
		require.NotNil(t, e.FromLocationID)
		assert.Equal(t, int64(3), *e.FromLocationID)
		require.NotNil(t, e.SchemaVersion)
		assert.Equal(t, 2, *e.SchemaVersion)
	})

	t.Run("camelCase fields", func(t *testing.T) {
		e, err := ParseOpEvent([]byte(`{
			"eventId": "ev-2",
			"docRef": "TSD-2",
			"fromLoc": "A1",
			"toLocationId": 7,
			"qty": 4
		}`))
		require.NoError(t, err)
		assert.Equal(t, "ev-2", e.EventID)
		assert.Equal(t, "TSD-2", e.DocRef)
		assert.Equal(t, "A1", e.FromLoc)
		require.NotNil(t, e.ToLocationID)
		assert.Equal(t, int64(7), *e.ToLocationID)
		assert.True(t, e.Qty.Equal(dec("4")))
	})

	t.Run("quantity with thousands separators", func(t *testing.T) {
		e, err := ParseOpEvent([]byte(`{"event_id": "ev-3", "qty": "1,234.5"}`))
		require.NoError(t, err)
		assert.True(t, e.Qty.Equal(dec("1234.5")))
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := ParseOpEvent([]byte(`[1, 2]`))
		require.Error(t, err)
		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "INVALID_JSON", se.Code)
	})
}
