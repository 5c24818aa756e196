package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// balanceEpsilon is the tolerance under which a balance counts as zero.
var balanceEpsilon = decimal.New(1, -6)

// CloseResult is the outcome of a close attempt. Validation failures
// are reported here, not as errors; infrastructure failures are.
type CloseResult struct {
	Success  bool     `json:"success"`
	DocRef   string   `json:"doc_ref,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type huLocationKey struct {
	Hu         string
	LocationID int64
}

// CloseCheck accumulates the validation state of one close attempt.
// The structural pass over the lines fills the aggregates; balance and
// handling unit projections are applied afterwards from store reads.
type CloseCheck struct {
	Doc   *Doc
	Lines []DocLineView

	// DocHu is the effective header handling unit, inferred from the
	// lines when the header was blank.
	DocHu            string
	HeaderHuInferred bool

	Errors   []string
	Warnings []string

	// Outgoing holds source-side demand per balance bucket.
	Outgoing map[StockKey]decimal.Decimal

	// OutboundByItem holds demand of outbound lines without a source
	// location; those are allocated across locations at posting time.
	OutboundByItem map[int64]decimal.Decimal
	AutoAllocate   bool

	// InventoryTargets holds the counted totals per bucket.
	InventoryTargets map[StockKey]decimal.Decimal

	// huDeltas projects how the document shifts handling unit contents.
	huDeltas map[huLocationKey]decimal.Decimal
}

// Passed reports whether posting may proceed.
func (c *CloseCheck) Passed(allowNegative bool) bool {
	if len(c.Errors) > 0 {
		return false
	}
	return allowNegative || len(c.Warnings) == 0
}

// Result converts the check into a failed CloseResult.
func (c *CloseCheck) Result() CloseResult {
	return CloseResult{
		Success:  false,
		Errors:   c.Errors,
		Warnings: c.Warnings,
	}
}

func (c *CloseCheck) addErrorf(format string, args ...any) {
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}

// NewCloseCheck runs the structural validation pass over the lines and
// builds the demand aggregates. It performs no store reads.
func NewCloseCheck(doc *Doc, lines []DocLineView) *CloseCheck {
	c := &CloseCheck{
		Doc:              doc,
		Lines:            lines,
		DocHu:            NormalizeHu(doc.ShippingRef),
		Outgoing:         make(map[StockKey]decimal.Decimal),
		OutboundByItem:   make(map[int64]decimal.Decimal),
		InventoryTargets: make(map[StockKey]decimal.Decimal),
		huDeltas:         make(map[huLocationKey]decimal.Decimal),
	}

	if len(lines) == 0 {
		c.addErrorf("document has no lines")
		return c
	}
	if c.DocHu == "" {
		if inferred := InferHeaderHu(doc.Type, lines); inferred != "" {
			c.DocHu = inferred
			c.HeaderHuInferred = true
		}
	}

	for i, line := range lines {
		c.checkLine(i+1, line)
	}
	return c
}

func (c *CloseCheck) checkLine(n int, line DocLineView) {
	label := lineLabel(n, line)
	if !line.Qty.IsPositive() {
		c.addErrorf("%s: quantity must be positive", label)
		return
	}

	hu := ResolveLedgerHu(c.Doc.Type, c.DocHu, line)
	if verr := CheckLineLocations(c.Doc.Type, line.FromLocationID, line.ToLocationID, hu.From, hu.To); verr != nil {
		c.addErrorf("%s: %s", label, verr.Message)
		return
	}

	switch c.Doc.Type {
	case DocTypeWriteOff:
		c.addOutgoing(line.ItemID, *line.FromLocationID, hu.From, line.Qty)
	case DocTypeOutbound:
		if line.FromLocationID != nil {
			c.addOutgoing(line.ItemID, *line.FromLocationID, hu.From, line.Qty)
		} else {
			c.OutboundByItem[line.ItemID] = c.OutboundByItem[line.ItemID].Add(line.Qty)
			c.AutoAllocate = true
		}
	case DocTypeMove:
		c.addOutgoing(line.ItemID, *line.FromLocationID, hu.From, line.Qty)
	case DocTypeInventory:
		key := StockKey{ItemID: line.ItemID, LocationID: *line.ToLocationID, Hu: NormalizeHu(hu.To)}
		c.InventoryTargets[key] = c.InventoryTargets[key].Add(line.Qty)
	}

	if hu.From != "" && line.FromLocationID != nil {
		k := huLocationKey{Hu: strings.ToUpper(hu.From), LocationID: *line.FromLocationID}
		c.huDeltas[k] = c.huDeltas[k].Sub(line.Qty)
	}
	if hu.To != "" && line.ToLocationID != nil {
		k := huLocationKey{Hu: strings.ToUpper(hu.To), LocationID: *line.ToLocationID}
		c.huDeltas[k] = c.huDeltas[k].Add(line.Qty)
	}
}

func (c *CloseCheck) addOutgoing(itemID, locationID int64, hu string, qty decimal.Decimal) {
	key := StockKey{ItemID: itemID, LocationID: locationID, Hu: NormalizeHu(hu)}
	c.Outgoing[key] = c.Outgoing[key].Add(qty)
}

// ReferencedHus lists every handling unit code the document's lines
// resolve to, upper-cased and sorted.
func (c *CloseCheck) ReferencedHus() []string {
	set := make(map[string]struct{})
	for _, line := range c.Lines {
		hu := ResolveLedgerHu(c.Doc.Type, c.DocHu, line)
		for _, code := range []string{hu.From, hu.To} {
			if code = strings.ToUpper(NormalizeHu(code)); code != "" {
				set[code] = struct{}{}
			}
		}
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TouchedHus lists the handling units the document moves stock in or
// out of, upper-cased for matching.
func (c *CloseCheck) TouchedHus() map[string]struct{} {
	touched := make(map[string]struct{}, len(c.huDeltas))
	for k := range c.huDeltas {
		touched[k.Hu] = struct{}{}
	}
	return touched
}

// CheckSourceBalance compares one source-side demand against the
// available balance and records a shortage error. Shortages always
// block posting.
func (c *CloseCheck) CheckSourceBalance(key StockKey, available decimal.Decimal, itemName, locationCode string) {
	required := c.Outgoing[key]
	if available.GreaterThanOrEqual(required) {
		return
	}
	suffix := ""
	if key.Hu != "" {
		suffix = fmt.Sprintf(" (HU %s)", key.Hu)
	}
	c.addErrorf("insufficient stock for %s at %s%s: required %s, available %s",
		itemName, locationCode, suffix, required.String(), available.String())
}

// CheckOutboundTotal records a shortage error when the total available
// stock cannot cover an auto-allocated outbound demand.
func (c *CloseCheck) CheckOutboundTotal(itemID int64, available decimal.Decimal, itemName string) {
	required := c.OutboundByItem[itemID]
	if available.GreaterThanOrEqual(required) {
		return
	}
	c.addErrorf("insufficient total stock for %s: required %s, available %s",
		itemName, required.String(), available.String())
}

// CheckHuUsable records an error for a referenced handling unit that is
// missing from the registry or no longer active.
func (c *CloseCheck) CheckHuUsable(code string, usable bool) {
	if !usable {
		c.addErrorf("handling unit %s is not usable", code)
	}
}

// RequirePartner records the partner requirement for outbound documents.
func (c *CloseCheck) RequirePartner() {
	if c.Doc.Type == DocTypeOutbound && c.Doc.PartnerID == nil {
		c.addErrorf("outbound document requires a partner")
	}
}

// ProjectHuLocations applies the document's handling unit deltas on top
// of the existing unit contents and records an error for every unit
// that would end up spread over more than one location.
func (c *CloseCheck) ProjectHuLocations(existing []HuStockRow) {
	touched := c.TouchedHus()
	if len(touched) == 0 {
		return
	}

	type slot struct {
		qty  decimal.Decimal
		code string
	}
	projected := make(map[string]map[int64]*slot)
	ensure := func(hu string, locationID int64, code string) *slot {
		byLoc, ok := projected[hu]
		if !ok {
			byLoc = make(map[int64]*slot)
			projected[hu] = byLoc
		}
		s, ok := byLoc[locationID]
		if !ok {
			s = &slot{code: code}
			byLoc[locationID] = s
		}
		if s.code == "" {
			s.code = code
		}
		return s
	}

	for _, row := range existing {
		hu := strings.ToUpper(NormalizeHu(row.HuCode))
		if _, ok := touched[hu]; !ok {
			continue
		}
		s := ensure(hu, row.LocationID, row.LocationCode)
		s.qty = s.qty.Add(row.Qty)
	}
	for k, delta := range c.huDeltas {
		s := ensure(k.Hu, k.LocationID, "")
		s.qty = s.qty.Add(delta)
	}

	hus := make([]string, 0, len(projected))
	for hu := range projected {
		hus = append(hus, hu)
	}
	sort.Strings(hus)

	for _, hu := range hus {
		var codes []string
		for locationID, s := range projected[hu] {
			if s.qty.Abs().LessThanOrEqual(balanceEpsilon) {
				continue
			}
			code := s.code
			if code == "" {
				code = fmt.Sprintf("#%d", locationID)
			}
			codes = append(codes, code)
		}
		if len(codes) <= 1 {
			continue
		}
		sort.Slice(codes, func(i, j int) bool {
			return strings.ToLower(codes[i]) < strings.ToLower(codes[j])
		})
		c.addErrorf("handling unit %s would span multiple locations: %s", hu, strings.Join(codes, ", "))
	}
}

// InventoryDelta returns the posting delta for one counted bucket.
// Deltas within the epsilon are dropped.
func InventoryDelta(target, current decimal.Decimal) (decimal.Decimal, bool) {
	delta := target.Sub(current)
	if delta.Abs().LessThanOrEqual(balanceEpsilon) {
		return decimal.Decimal{}, false
	}
	return delta, true
}

func lineLabel(n int, line DocLineView) string {
	if line.ItemName != "" {
		return fmt.Sprintf("line %d (%s)", n, line.ItemName)
	}
	return fmt.Sprintf("line %d", n)
}
