package sync

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OpEvent is one scanned operation uploaded by an online terminal.
// Terminals of different firmware generations spell the fields in
// snake_case or camelCase; ParseOpEvent accepts both.
type OpEvent struct {
	EventID        string
	DeviceID       string
	Op             string
	DocRef         string
	Barcode        string
	Qty            decimal.Decimal
	FromLoc        string
	ToLoc          string
	FromHu         string
	ToHu           string
	HuCode         string
	FromLocationID *int64
	ToLocationID   *int64
	PartnerCode    string
	OrderRef       string
	ReasonCode     string
	SchemaVersion  *int
	Timestamp      string
}

// ParseOpEvent decodes a raw operation event payload. A nil event with
// a non-nil error means the body was not valid JSON.
func ParseOpEvent(raw []byte) (*OpEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, NewError("INVALID_JSON")
	}
	e := &OpEvent{
		EventID:        getString(fields, "event_id", "eventId"),
		DeviceID:       getString(fields, "device_id", "deviceId"),
		Op:             getString(fields, "op"),
		DocRef:         getString(fields, "doc_ref", "docRef"),
		Barcode:        getString(fields, "barcode"),
		Qty:            getDecimal(fields, "qty"),
		FromLoc:        getString(fields, "from_loc", "fromLoc"),
		ToLoc:          getString(fields, "to_loc", "toLoc"),
		FromHu:         getString(fields, "from_hu", "fromHu"),
		ToHu:           getString(fields, "to_hu", "toHu"),
		HuCode:         getString(fields, "hu_code", "huCode"),
		FromLocationID: getInt64(fields, "from_location_id", "fromLocationId"),
		ToLocationID:   getInt64(fields, "to_location_id", "toLocationId"),
		PartnerCode:    getString(fields, "partner_code", "partnerCode"),
		OrderRef:       getString(fields, "order_ref", "orderRef"),
		ReasonCode:     getString(fields, "reason_code", "reasonCode"),
		SchemaVersion:  getInt(fields, "schema_version", "schemaVersion"),
		Timestamp:      getString(fields, "ts"),
	}
	return e, nil
}

func getString(fields map[string]json.RawMessage, names ...string) string {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
		return ""
	}
	return ""
}

func getDecimal(fields map[string]json.RawMessage, names ...string) decimal.Decimal {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err == nil {
			return d
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
			if d, err := decimal.NewFromString(s); err == nil {
				return d
			}
		}
		return decimal.Zero
	}
	return decimal.Zero
}

func getInt64(fields map[string]json.RawMessage, names ...string) *int64 {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var v int64
		if err := json.Unmarshal(raw, &v); err == nil {
			return &v
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return &v
			}
		}
		return nil
	}
	return nil
}

func getInt(fields map[string]json.RawMessage, names ...string) *int {
	if v := getInt64(fields, names...); v != nil {
		n := int(*v)
		return &n
	}
	return nil
}
