package document

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/order"
	"github.com/wms/backend/internal/domain/shared"
)

// recountMarker tags inventory drafts that terminals must count again.
const recountMarker = "TSD:RECOUNT"

// CreateDocInput carries the header of a new document.
type CreateDocInput struct {
	Type        document.DocType
	DocRef      string
	PartnerID   *int64
	OrderID     *int64
	OrderRef    string
	ShippingRef string
	Comment     string
}

// AddLineInput carries one new document line.
type AddLineInput struct {
	ItemID         int64
	Qty            decimal.Decimal
	QtyInput       *decimal.Decimal
	UomCode        string
	FromLocationID *int64
	ToLocationID   *int64
	FromHu         string
	ToHu           string
}

// Service drives the document lifecycle: drafting, line editing,
// order application and the close that posts to the ledger.
type Service struct {
	store Store
	refs  *RefGenerator
}

// NewService creates a document service.
func NewService(store Store, refs *RefGenerator) *Service {
	return &Service{store: store, refs: refs}
}

// NextRef returns the next free document reference for a type.
func (s *Service) NextRef(ctx context.Context, docType document.DocType) (string, error) {
	return s.refs.Next(ctx, s.store.Docs(), docType)
}

// CreateDoc creates a draft document, copying lines from the source
// order when one is given.
func (s *Service) CreateDoc(ctx context.Context, in CreateDocInput) (*document.Doc, error) {
	var doc *document.Doc
	err := s.store.InTransaction(ctx, func(st Store) error {
		var err error
		doc, err = s.CreateDocIn(ctx, st, in)
		return err
	})
	return doc, err
}

// CreateDocIn is CreateDoc bound to the caller's store, for callers
// that compose it into a wider transaction.
func (s *Service) CreateDocIn(ctx context.Context, st Store, in CreateDocInput) (*document.Doc, error) {
	docRef := strings.TrimSpace(in.DocRef)
	if docRef == "" {
		return nil, shared.NewDomainError("INVALID_DOC_REF", "document reference is required")
	}

	if _, err := st.Docs().FindByRef(ctx, docRef); err == nil {
		return nil, shared.ErrDocRefExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if year, seq, ok := document.ParseRefSequence(docRef); ok {
		taken, err := st.Docs().RefSequenceTaken(ctx, year, seq)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.ErrDocRefExists
		}
	}

	partnerID := in.PartnerID
	if partnerID != nil {
		if _, err := st.Partners().FindByID(ctx, *partnerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("UNKNOWN_PARTNER", "partner not found")
			}
			return nil, err
		}
	}

	orderRef := strings.TrimSpace(in.OrderRef)
	var src *order.Order
	if in.OrderID != nil {
		var err error
		src, err = st.Orders().FindByID(ctx, *in.OrderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("UNKNOWN_ORDER", "order not found")
			}
			return nil, err
		}
		orderRef = src.OrderRef
		if partnerID == nil {
			partnerID = src.PartnerID
		}
	}

	doc := &document.Doc{
		DocRef:      docRef,
		Type:        in.Type,
		Status:      document.DocStatusDraft,
		PartnerID:   partnerID,
		OrderID:     in.OrderID,
		OrderRef:    orderRef,
		ShippingRef: document.NormalizeHu(in.ShippingRef),
		Comment:     strings.TrimSpace(in.Comment),
	}
	if err := st.Docs().Create(ctx, doc); err != nil {
		return nil, err
	}

	if src != nil {
		if err := s.copyOrderLines(ctx, st, doc, src); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Service) copyOrderLines(ctx context.Context, st Store, doc *document.Doc, src *order.Order) error {
	lines, err := st.Orders().Lines(ctx, src.ID)
	if err != nil {
		return err
	}
	fromHu, toHu := document.ResolveHeaderHu(doc.Type, doc.ShippingRef)
	for _, l := range lines {
		if !l.Qty.IsPositive() {
			continue
		}
		uom := ""
		if item, err := st.Items().FindByID(ctx, l.ItemID); err == nil {
			uom = item.UomCode
		}
		line := &document.DocLine{
			DocID:   doc.ID,
			ItemID:  l.ItemID,
			Qty:     l.Qty,
			UomCode: uom,
			FromHu:  fromHu,
			ToHu:    toHu,
		}
		if err := st.Docs().AddLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// GetDoc returns a document header with its line views.
func (s *Service) GetDoc(ctx context.Context, docID int64) (*document.Doc, []document.DocLineView, error) {
	doc, err := s.store.Docs().FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrDocNotFound
		}
		return nil, nil, err
	}
	lines, err := s.store.Docs().LineViews(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	return doc, lines, nil
}

// ListDocs lists documents newest first, optionally filtered by type.
func (s *Service) ListDocs(ctx context.Context, docType document.DocType, take int) ([]document.Doc, error) {
	return s.store.Docs().FindAll(ctx, docType, take)
}

// AddDocLine appends a line to a draft document.
func (s *Service) AddDocLine(ctx context.Context, docID int64, in AddLineInput) (*document.DocLine, error) {
	var line *document.DocLine
	err := s.store.InTransaction(ctx, func(st Store) error {
		var err error
		line, err = s.AddDocLineIn(ctx, st, docID, in)
		return err
	})
	return line, err
}

// AddDocLineIn is AddDocLine bound to the caller's store.
func (s *Service) AddDocLineIn(ctx context.Context, st Store, docID int64, in AddLineInput) (*document.DocLine, error) {
	doc, err := s.requireDraft(ctx, st, docID)
	if err != nil {
		return nil, err
	}
	if !in.Qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QTY", "quantity must be positive")
	}
	if verr := document.CheckLineLocations(doc.Type, in.FromLocationID, in.ToLocationID, in.FromHu, in.ToHu); verr != nil {
		return nil, verr
	}

	item, err := st.Items().FindByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNKNOWN_ITEM", "item not found")
		}
		return nil, err
	}

	for _, locationID := range []*int64{in.FromLocationID, in.ToLocationID} {
		if locationID == nil {
			continue
		}
		if _, err := st.Locations().FindByID(ctx, *locationID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("UNKNOWN_LOCATION", "location not found")
			}
			return nil, err
		}
	}

	for _, code := range []string{document.NormalizeHu(in.FromHu), document.NormalizeHu(in.ToHu)} {
		if code == "" {
			continue
		}
		hu, err := st.Hus().FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("UNKNOWN_HU", "handling unit not found: "+code)
			}
			return nil, err
		}
		if !hu.Usable() {
			return nil, shared.ErrHuNotUsable
		}
	}

	uom := strings.TrimSpace(in.UomCode)
	if uom == "" {
		uom = item.UomCode
	}
	line := &document.DocLine{
		DocID:          doc.ID,
		ItemID:         item.ID,
		Qty:            in.Qty,
		QtyInput:       in.QtyInput,
		UomCode:        uom,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		FromHu:         document.NormalizeHu(in.FromHu),
		ToHu:           document.NormalizeHu(in.ToHu),
	}
	if err := st.Docs().AddLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateDocLineQty replaces the quantity of a draft line.
func (s *Service) UpdateDocLineQty(ctx context.Context, docID, lineID int64, qty decimal.Decimal, qtyInput *decimal.Decimal) error {
	return s.store.InTransaction(ctx, func(st Store) error {
		if _, err := s.requireDraft(ctx, st, docID); err != nil {
			return err
		}
		if !qty.IsPositive() {
			return shared.NewDomainError("INVALID_QTY", "quantity must be positive")
		}
		if _, err := s.requireLine(ctx, st, docID, lineID); err != nil {
			return err
		}
		return st.Docs().UpdateLineQty(ctx, lineID, qty, qtyInput)
	})
}

// DeleteDocLine removes a draft line.
func (s *Service) DeleteDocLine(ctx context.Context, docID, lineID int64) error {
	return s.store.InTransaction(ctx, func(st Store) error {
		if _, err := s.requireDraft(ctx, st, docID); err != nil {
			return err
		}
		if _, err := s.requireLine(ctx, st, docID, lineID); err != nil {
			return err
		}
		return st.Docs().DeleteLine(ctx, lineID)
	})
}

// UpdateDocHeader replaces the editable header fields of a draft.
func (s *Service) UpdateDocHeader(ctx context.Context, docID int64, partnerID *int64, orderRef, shippingRef string) error {
	return s.store.InTransaction(ctx, func(st Store) error {
		if _, err := s.requireDraft(ctx, st, docID); err != nil {
			return err
		}
		if partnerID != nil {
			if _, err := st.Partners().FindByID(ctx, *partnerID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("UNKNOWN_PARTNER", "partner not found")
				}
				return err
			}
		}
		return st.Docs().UpdateHeader(ctx, docID, partnerID, strings.TrimSpace(orderRef), document.NormalizeHu(shippingRef))
	})
}

// ApplyOrder links an order to a draft and replaces the draft's lines
// with what remains to be fulfilled: the ordered quantities minus what
// closed outbound documents already shipped against the order.
func (s *Service) ApplyOrder(ctx context.Context, docID, orderID int64) error {
	return s.store.InTransaction(ctx, func(st Store) error {
		doc, err := s.requireDraft(ctx, st, docID)
		if err != nil {
			return err
		}
		src, err := st.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("UNKNOWN_ORDER", "order not found")
			}
			return err
		}

		lines, err := st.Orders().Lines(ctx, orderID)
		if err != nil {
			return err
		}
		shipped, err := st.Docs().ShippedTotalsByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		remaining := order.RemainingByItem(lines, shipped)

		partnerID := doc.PartnerID
		if src.PartnerID != nil {
			partnerID = src.PartnerID
		}
		if err := st.Docs().UpdateHeader(ctx, docID, partnerID, src.OrderRef, doc.ShippingRef); err != nil {
			return err
		}
		if err := st.Docs().UpdateOrderLink(ctx, docID, &src.ID, src.OrderRef); err != nil {
			return err
		}
		if err := st.Docs().DeleteLines(ctx, docID); err != nil {
			return err
		}

		itemIDs := make([]int64, 0, len(remaining))
		for itemID := range remaining {
			itemIDs = append(itemIDs, itemID)
		}
		sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

		fromHu, toHu := document.ResolveHeaderHu(doc.Type, doc.ShippingRef)
		for _, itemID := range itemIDs {
			uom := ""
			if item, err := st.Items().FindByID(ctx, itemID); err == nil {
				uom = item.UomCode
			}
			line := &document.DocLine{
				DocID:   docID,
				ItemID:  itemID,
				Qty:     remaining[itemID],
				UomCode: uom,
				FromHu:  fromHu,
				ToHu:    toHu,
			}
			if err := st.Docs().AddLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearOrder detaches the linked order from a draft, keeping the lines.
func (s *Service) ClearOrder(ctx context.Context, docID int64) error {
	return s.store.InTransaction(ctx, func(st Store) error {
		if _, err := s.requireDraft(ctx, st, docID); err != nil {
			return err
		}
		return st.Docs().UpdateOrderLink(ctx, docID, nil, "")
	})
}

// MarkForRecount tags an inventory draft so terminals count it again.
func (s *Service) MarkForRecount(ctx context.Context, docID int64) error {
	return s.store.InTransaction(ctx, func(st Store) error {
		doc, err := s.requireDraft(ctx, st, docID)
		if err != nil {
			return err
		}
		if doc.Type != document.DocTypeInventory {
			return shared.NewDomainError("INVALID_DOC_TYPE", "only inventory documents can be marked for recount")
		}
		if strings.Contains(doc.Comment, recountMarker) {
			return nil
		}
		comment := strings.TrimSpace(doc.Comment + " " + recountMarker)
		return st.Docs().UpdateComment(ctx, docID, comment)
	})
}

// TryCloseDoc validates and posts a document in one serializable
// transaction. Validation failures, stock shortages included, come
// back as errors in the CloseResult and always block posting.
func (s *Service) TryCloseDoc(ctx context.Context, docID int64, allowNegative bool) (document.CloseResult, error) {
	var result document.CloseResult
	err := s.store.InSerializableTransaction(ctx, func(st Store) error {
		var err error
		result, err = s.TryCloseDocIn(ctx, st, docID, allowNegative)
		return err
	})
	return result, err
}

// TryCloseDocIn is TryCloseDoc bound to the caller's store. The caller
// owns the transaction.
func (s *Service) TryCloseDocIn(ctx context.Context, st Store, docID int64, allowNegative bool) (document.CloseResult, error) {
	doc, err := st.Docs().FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return document.CloseResult{Errors: []string{"document not found"}}, nil
		}
		return document.CloseResult{}, err
	}
	if !doc.IsDraft() {
		return document.CloseResult{Errors: []string{"document is already closed"}}, nil
	}

	lines, err := st.Docs().LineViews(ctx, docID)
	if err != nil {
		return document.CloseResult{}, err
	}

	check := document.NewCloseCheck(doc, lines)
	check.RequirePartner()
	if err := s.applyStockChecks(ctx, st, check, lines); err != nil {
		return document.CloseResult{}, err
	}
	if !check.Passed(allowNegative) {
		return check.Result(), nil
	}

	if err := s.post(ctx, st, check); err != nil {
		return document.CloseResult{}, err
	}
	return document.CloseResult{
		Success:  true,
		DocRef:   doc.DocRef,
		Warnings: check.Warnings,
	}, nil
}

func (s *Service) applyStockChecks(ctx context.Context, st Store, check *document.CloseCheck, lines []document.DocLineView) error {
	itemNames := make(map[int64]string, len(lines))
	locationCodes := make(map[int64]string, len(lines))
	for _, l := range lines {
		itemNames[l.ItemID] = l.ItemName
		if l.FromLocationID != nil {
			locationCodes[*l.FromLocationID] = l.FromLocationCode
		}
		if l.ToLocationID != nil {
			locationCodes[*l.ToLocationID] = l.ToLocationCode
		}
	}

	keys := make([]document.StockKey, 0, len(check.Outgoing))
	for key := range check.Outgoing {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemID != keys[j].ItemID {
			return keys[i].ItemID < keys[j].ItemID
		}
		if keys[i].LocationID != keys[j].LocationID {
			return keys[i].LocationID < keys[j].LocationID
		}
		return keys[i].Hu < keys[j].Hu
	})
	for _, code := range check.ReferencedHus() {
		hu, err := st.Hus().FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				check.CheckHuUsable(code, false)
				continue
			}
			return err
		}
		check.CheckHuUsable(code, hu.Usable())
	}

	for _, key := range keys {
		available, err := st.Ledger().Balance(ctx, key.ItemID, key.LocationID, key.Hu)
		if err != nil {
			return err
		}
		check.CheckSourceBalance(key, available, itemNames[key.ItemID], locationCodes[key.LocationID])
	}

	itemIDs := make([]int64, 0, len(check.OutboundByItem))
	for itemID := range check.OutboundByItem {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })
	for _, itemID := range itemIDs {
		available, err := st.Ledger().TotalAvailable(ctx, itemID, "")
		if err != nil {
			return err
		}
		check.CheckOutboundTotal(itemID, available, itemNames[itemID])
	}

	if len(check.TouchedHus()) > 0 {
		rows, err := st.Ledger().HuStock(ctx)
		if err != nil {
			return err
		}
		check.ProjectHuLocations(rows)
	}
	return nil
}

func (s *Service) post(ctx context.Context, st Store, check *document.CloseCheck) error {
	doc := check.Doc
	closedAt := time.Now()

	if check.HeaderHuInferred {
		if err := st.Docs().UpdateHeader(ctx, doc.ID, doc.PartnerID, doc.OrderRef, check.DocHu); err != nil {
			return err
		}
	}

	for _, line := range check.Lines {
		hu := document.ResolveLedgerHu(doc.Type, check.DocHu, line)
		switch doc.Type {
		case document.DocTypeInbound:
			if line.ToLocationID != nil {
				if err := s.append(ctx, st, doc.ID, line.ItemID, *line.ToLocationID, line.Qty, hu.To, closedAt); err != nil {
					return err
				}
			}
		case document.DocTypeWriteOff:
			if line.FromLocationID != nil {
				if err := s.append(ctx, st, doc.ID, line.ItemID, *line.FromLocationID, line.Qty.Neg(), hu.From, closedAt); err != nil {
					return err
				}
			}
		case document.DocTypeOutbound:
			if line.FromLocationID != nil {
				if err := s.append(ctx, st, doc.ID, line.ItemID, *line.FromLocationID, line.Qty.Neg(), hu.From, closedAt); err != nil {
					return err
				}
			} else if err := s.allocateOutbound(ctx, st, doc.ID, line, closedAt); err != nil {
				return err
			}
		case document.DocTypeMove:
			if line.FromLocationID != nil {
				if err := s.append(ctx, st, doc.ID, line.ItemID, *line.FromLocationID, line.Qty.Neg(), hu.From, closedAt); err != nil {
					return err
				}
			}
			if line.ToLocationID != nil {
				if err := s.append(ctx, st, doc.ID, line.ItemID, *line.ToLocationID, line.Qty, hu.To, closedAt); err != nil {
					return err
				}
			}
		case document.DocTypeInventory:
			// Posted from the aggregated targets below.
		}
	}

	if doc.Type == document.DocTypeInventory {
		if err := s.postInventory(ctx, st, doc.ID, check, closedAt); err != nil {
			return err
		}
	}

	return st.Docs().MarkClosed(ctx, doc.ID, closedAt)
}

// allocateOutbound draws an outbound line without a source location
// from loose stock, walking locations in code order. Demand the walk
// cannot cover stays unposted; the close check has already decided
// whether that is acceptable.
func (s *Service) allocateOutbound(ctx context.Context, st Store, docID int64, line document.DocLineView, closedAt time.Time) error {
	locations, err := st.Locations().FindAll(ctx)
	if err != nil {
		return err
	}
	remaining := line.Qty
	for _, location := range locations {
		if !remaining.IsPositive() {
			break
		}
		available, err := st.Ledger().Balance(ctx, line.ItemID, location.ID, "")
		if err != nil {
			return err
		}
		if !available.IsPositive() {
			continue
		}
		take := decimal.Min(available, remaining)
		if err := s.append(ctx, st, docID, line.ItemID, location.ID, take.Neg(), "", closedAt); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}
	return nil
}

func (s *Service) postInventory(ctx context.Context, st Store, docID int64, check *document.CloseCheck, closedAt time.Time) error {
	keys := make([]document.StockKey, 0, len(check.InventoryTargets))
	for key := range check.InventoryTargets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemID != keys[j].ItemID {
			return keys[i].ItemID < keys[j].ItemID
		}
		if keys[i].LocationID != keys[j].LocationID {
			return keys[i].LocationID < keys[j].LocationID
		}
		return keys[i].Hu < keys[j].Hu
	})
	for _, key := range keys {
		current, err := st.Ledger().Balance(ctx, key.ItemID, key.LocationID, key.Hu)
		if err != nil {
			return err
		}
		delta, post := document.InventoryDelta(check.InventoryTargets[key], current)
		if !post {
			continue
		}
		if err := s.append(ctx, st, docID, key.ItemID, key.LocationID, delta, key.Hu, closedAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) append(ctx context.Context, st Store, docID, itemID, locationID int64, delta decimal.Decimal, hu string, at time.Time) error {
	return st.Ledger().Append(ctx, &document.LedgerEntry{
		DocID:      docID,
		ItemID:     itemID,
		LocationID: locationID,
		QtyDelta:   delta,
		HuCode:     document.NormalizeHu(hu),
		Timestamp:  at,
	})
}

func (s *Service) requireDraft(ctx context.Context, st Store, docID int64) (*document.Doc, error) {
	doc, err := st.Docs().FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrDocNotFound
		}
		return nil, err
	}
	if !doc.IsDraft() {
		return nil, shared.ErrDocNotDraft
	}
	return doc, nil
}

func (s *Service) requireLine(ctx context.Context, st Store, docID, lineID int64) (*document.DocLine, error) {
	lines, err := st.Docs().Lines(ctx, docID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ID == lineID {
			return &lines[i], nil
		}
	}
	return nil, shared.NewDomainError("LINE_NOT_FOUND", "document line not found")
}
