package dto

import "github.com/shopspring/decimal"

// CreateDocRequest is the terminal document registration payload.
// doc_uid identifies the document across retries; event_id identifies
// this particular submission.
type CreateDocRequest struct {
	DocUID         string          `json:"doc_uid"`
	EventID        string          `json:"event_id"`
	Type           string          `json:"type"`
	DocRef         string          `json:"doc_ref"`
	PartnerID      *int64          `json:"partner_id"`
	FromLocationID *int64          `json:"from_location_id"`
	ToLocationID   *int64          `json:"to_location_id"`
	FromHu         string          `json:"from_hu"`
	ToHu           string          `json:"to_hu"`
	Comment        string          `json:"comment"`
	DeviceID       string          `json:"device_id"`
	DraftOnly      bool            `json:"draft_only"`
}

// AddLineRequest is one scanned line for a terminal document.
type AddLineRequest struct {
	EventID  string          `json:"event_id"`
	ItemID   *int64          `json:"item_id"`
	Barcode  string          `json:"barcode"`
	Qty      decimal.Decimal `json:"qty"`
	UomCode  string          `json:"uom_code"`
	DeviceID string          `json:"device_id"`
}

// CloseDocRequest asks the server to post a terminal document.
type CloseDocRequest struct {
	EventID  string `json:"event_id"`
	DeviceID string `json:"device_id"`
}

// GenerateHusRequest issues a batch of handling unit codes.
type GenerateHusRequest struct {
	Count     int    `json:"count"`
	CreatedBy string `json:"created_by"`
}

// CloseHuRequest retires a handling unit code.
type CloseHuRequest struct {
	ClosedBy string `json:"closed_by"`
	Note     string `json:"note"`
}

// OkResponse is the bare acknowledgement shape
type OkResponse struct {
	Ok bool `json:"ok"`
}

// DocResponse wraps a registered document
type DocResponse struct {
	Ok  bool `json:"ok"`
	Doc any  `json:"doc,omitempty"`
}

// LineResponse wraps an accepted line
type LineResponse struct {
	Ok   bool `json:"ok"`
	Line any  `json:"line,omitempty"`
}

// CloseResponse reports a close attempt. Ok false with Errors is a
// rejected close, not a transport failure.
type CloseResponse struct {
	Ok       bool     `json:"ok"`
	Closed   bool     `json:"closed"`
	DocRef   string   `json:"doc_ref,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// HusResponse lists freshly generated handling unit codes
type HusResponse struct {
	Ok  bool     `json:"ok"`
	Hus []string `json:"hus"`
}

// ErrorResponse is the sync protocol rejection shape. Error carries
// the stable code or a human message; the detail fields accompany
// resolution failures.
type ErrorResponse struct {
	Ok          bool     `json:"ok"`
	Error       string   `json:"error"`
	Missing     []string `json:"missing,omitempty"`
	Matches     any      `json:"matches,omitempty"`
	SampleCodes []string `json:"sample_codes,omitempty"`
}
