package sync

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
	syncdomain "github.com/wms/backend/internal/domain/sync"
	"go.uber.org/zap"
)

// CreateDocInput is the header context a terminal sends when opening
// a document. DraftOnly suppresses the completeness requirements so a
// picker can start scanning before choosing a partner.
type CreateDocInput struct {
	DocUID         string
	EventID        string
	DeviceID       string
	Type           string
	DocRef         string
	Comment        string
	PartnerID      *int64
	FromLocationID *int64
	ToLocationID   *int64
	FromHu         string
	ToHu           string
	DraftOnly      bool
}

// AddLineInput is one scanned line for a terminal document.
type AddLineInput struct {
	EventID  string
	DeviceID string
	ItemID   *int64
	Barcode  string
	Qty      decimal.Decimal
	UomCode  string
}

// DocInfo reports the server-side identity of a terminal document.
type DocInfo struct {
	ID            int64            `json:"id"`
	DocUID        string           `json:"doc_uid"`
	DocRef        string           `json:"doc_ref"`
	Status        string           `json:"status"`
	Type          document.DocType `json:"type"`
	DocRefChanged bool             `json:"doc_ref_changed,omitempty"`
}

// LineInfo reports an accepted line.
type LineInfo struct {
	ID      int64           `json:"id"`
	ItemID  int64           `json:"item_id"`
	Qty     decimal.Decimal `json:"qty"`
	UomCode string          `json:"uom_code,omitempty"`
}

// CloseInfo reports a close attempt. A false Closed with Errors is a
// rejected close, not a transport failure; the terminal shows the
// errors and keeps the draft.
type CloseInfo struct {
	Closed   bool     `json:"closed"`
	DocRef   string   `json:"doc_ref,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Service implements the idempotent scanner sync protocol. Every
// mutation carries an event ID; replays of a processed event succeed
// without repeating the effect, and reuse of an event ID for a
// different operation is rejected.
type Service struct {
	store docapp.Store
	docs  *docapp.Service
	refs  *docapp.RefGenerator
	log   *zap.Logger
}

// NewService creates a sync service.
func NewService(store docapp.Store, docs *docapp.Service, log *zap.Logger) *Service {
	return &Service{
		store: store,
		docs:  docs,
		refs:  docapp.NewRefGenerator(),
		log:   log.Named("sync"),
	}
}

// CreateDoc registers a terminal document. Replays return the already
// registered document; a known UID with compatible context is enriched
// field by field, never overwritten. A nil DocInfo with nil error is a
// replay acknowledged without document context.
func (s *Service) CreateDoc(ctx context.Context, in CreateDocInput) (*DocInfo, error) {
	docUID := strings.TrimSpace(in.DocUID)
	if docUID == "" {
		return nil, NewError("MISSING_DOC_UID")
	}
	if strings.TrimSpace(in.EventID) == "" {
		return nil, NewError("MISSING_EVENT_ID")
	}
	docType, ok := document.ParseDocType(in.Type)
	if !ok || !docType.SyncAllowed() {
		return nil, NewError("INVALID_TYPE")
	}

	var info *DocInfo
	err := s.store.InTransaction(ctx, func(st docapp.Store) error {
		replayed, stop, err := s.checkEvent(ctx, st, in.EventID, syncdomain.EventTypeDocCreate, docUID)
		if err != nil {
			return err
		}
		if stop {
			if replayed {
				if ad, err := st.Sync().FindApiDoc(ctx, docUID); err == nil {
					info = apiDocInfo(ad)
				}
				return nil
			}
			return NewError("EVENT_ID_CONFLICT")
		}

		ad, err := st.Sync().FindApiDoc(ctx, docUID)
		switch {
		case err == nil:
			info, err = s.enrichDoc(ctx, st, ad, docType, in)
			return err
		case errors.Is(err, shared.ErrNotFound):
			info, err = s.registerDoc(ctx, st, docUID, docType, in)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// checkEvent classifies an event ID: unseen (stop=false), a replay of
// the same operation (stop=true, replayed=true) or a conflicting reuse
// (stop=true, replayed=false).
func (s *Service) checkEvent(ctx context.Context, st docapp.Store, eventID, eventType, docUID string) (replayed, stop bool, err error) {
	ev, err := st.Sync().FindEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	if ev.Matches(eventType, docUID) {
		return true, true, nil
	}
	return false, true, nil
}

func (s *Service) enrichDoc(ctx context.Context, st docapp.Store, ad *syncdomain.ApiDoc, docType document.DocType, in CreateDocInput) (*DocInfo, error) {
	if ad.DocType != "" && ad.DocType != docType {
		return nil, NewError("DUPLICATE_DOC_UID")
	}
	if requested := strings.TrimSpace(in.DocRef); requested != "" && !strings.EqualFold(ad.DocRef, requested) {
		return nil, NewError("DUPLICATE_DOC_UID")
	}

	updated := false
	partnerFilled := false

	if in.PartnerID != nil {
		switch {
		case ad.PartnerID != nil && *ad.PartnerID != *in.PartnerID:
			return nil, NewError("DUPLICATE_DOC_UID")
		case ad.PartnerID == nil:
			if _, err := st.Partners().FindByID(ctx, *in.PartnerID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, NewError("UNKNOWN_PARTNER")
				}
				return nil, err
			}
			ad.PartnerID = in.PartnerID
			updated = true
			partnerFilled = true
		}
	}

	fill := func(current **int64, requested *int64) error {
		if requested == nil {
			return nil
		}
		if *current != nil {
			if **current != *requested {
				return NewError("DUPLICATE_DOC_UID")
			}
			return nil
		}
		if _, err := st.Locations().FindByID(ctx, *requested); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return NewError("UNKNOWN_LOCATION")
			}
			return err
		}
		*current = requested
		updated = true
		return nil
	}
	if err := fill(&ad.FromLocationID, in.FromLocationID); err != nil {
		return nil, err
	}
	if err := fill(&ad.ToLocationID, in.ToLocationID); err != nil {
		return nil, err
	}

	var missing []string
	fillHu := func(current *string, requested, field string) error {
		requested = document.NormalizeHu(requested)
		if requested == "" {
			return nil
		}
		if *current != "" {
			if !strings.EqualFold(*current, requested) {
				return NewError("DUPLICATE_DOC_UID")
			}
			return nil
		}
		hu, err := st.Hus().FindByCode(ctx, requested)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				missing = append(missing, field)
				return nil
			}
			return err
		}
		if !hu.Usable() {
			missing = append(missing, field)
			return nil
		}
		*current = requested
		updated = true
		return nil
	}
	if err := fillHu(&ad.FromHu, in.FromHu, "from_hu"); err != nil {
		return nil, err
	}
	if err := fillHu(&ad.ToHu, in.ToHu, "to_hu"); err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &Error{Code: "UNKNOWN_HU", Missing: missing}
	}

	if !in.DraftOnly {
		if err := requireCompleteness(docType, ad.PartnerID, ad.FromLocationID, ad.ToLocationID); err != nil {
			return nil, err
		}
	}

	if updated {
		if partnerFilled {
			doc, err := st.Docs().FindByID(ctx, ad.DocID)
			if err == nil && doc.IsDraft() {
				if err := st.Docs().UpdateHeader(ctx, doc.ID, ad.PartnerID, doc.OrderRef, doc.ShippingRef); err != nil {
					return nil, err
				}
			}
		}
		if err := st.Sync().UpdateApiDoc(ctx, ad); err != nil {
			return nil, err
		}
	}
	return apiDocInfo(ad), nil
}

func (s *Service) registerDoc(ctx context.Context, st docapp.Store, docUID string, docType document.DocType, in CreateDocInput) (*DocInfo, error) {
	if in.PartnerID != nil {
		if _, err := st.Partners().FindByID(ctx, *in.PartnerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, NewError("UNKNOWN_PARTNER")
			}
			return nil, err
		}
	}
	for _, locationID := range []*int64{in.FromLocationID, in.ToLocationID} {
		if locationID == nil {
			continue
		}
		if _, err := st.Locations().FindByID(ctx, *locationID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, NewError("UNKNOWN_LOCATION")
			}
			return nil, err
		}
	}
	if !in.DraftOnly {
		if err := requireCompleteness(docType, in.PartnerID, in.FromLocationID, in.ToLocationID); err != nil {
			return nil, err
		}
	}

	fromHu := document.NormalizeHu(in.FromHu)
	toHu := document.NormalizeHu(in.ToHu)
	var missing []string
	for _, hu := range []struct{ code, field string }{{fromHu, "from_hu"}, {toHu, "to_hu"}} {
		if hu.code == "" {
			continue
		}
		record, err := st.Hus().FindByCode(ctx, hu.code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				missing = append(missing, hu.field)
				continue
			}
			return nil, err
		}
		if !record.Usable() {
			missing = append(missing, hu.field)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{Code: "UNKNOWN_HU", Missing: missing}
	}

	requestedRef := strings.TrimSpace(in.DocRef)
	docRef := requestedRef
	if docRef == "" {
		var err error
		if docRef, err = s.refs.Next(ctx, st.Docs(), docType); err != nil {
			return nil, err
		}
	} else if _, err := st.Docs().FindByRef(ctx, docRef); err == nil {
		if docRef, err = s.refs.Next(ctx, st.Docs(), docType); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	doc, err := s.docs.CreateDocIn(ctx, st, docapp.CreateDocInput{
		Type:      docType,
		DocRef:    docRef,
		Comment:   in.Comment,
		PartnerID: in.PartnerID,
	})
	if errors.Is(err, shared.ErrDocRefExists) {
		// Lost the reference race; one fresh reference and a final try.
		if docRef, err = s.refs.Next(ctx, st.Docs(), docType); err != nil {
			return nil, err
		}
		doc, err = s.docs.CreateDocIn(ctx, st, docapp.CreateDocInput{
			Type:      docType,
			DocRef:    docRef,
			Comment:   in.Comment,
			PartnerID: in.PartnerID,
		})
		if errors.Is(err, shared.ErrDocRefExists) {
			return nil, NewError("DOC_REF_EXISTS")
		}
	}
	if err != nil {
		return nil, err
	}

	ad := &syncdomain.ApiDoc{
		DocUID:         docUID,
		DocID:          doc.ID,
		DocRef:         doc.DocRef,
		DocType:        docType,
		Status:         "DRAFT",
		PartnerID:      in.PartnerID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		FromHu:         fromHu,
		ToHu:           toHu,
		DeviceID:       strings.TrimSpace(in.DeviceID),
	}
	if err := st.Sync().CreateApiDoc(ctx, ad); err != nil {
		return nil, err
	}
	if err := s.recordEvent(ctx, st, in.EventID, syncdomain.EventTypeDocCreate, docUID, in.DeviceID); err != nil {
		return nil, err
	}

	s.log.Info("terminal document registered",
		zap.String("doc_uid", docUID),
		zap.String("doc_ref", doc.DocRef),
		zap.String("type", string(docType)),
		zap.String("device_id", ad.DeviceID))

	info := apiDocInfo(ad)
	info.DocRefChanged = requestedRef != "" && !strings.EqualFold(requestedRef, doc.DocRef)
	return info, nil
}

func requireCompleteness(docType document.DocType, partnerID, fromLocationID, toLocationID *int64) error {
	if (docType == document.DocTypeInbound || docType == document.DocTypeOutbound) && partnerID == nil {
		return NewError("MISSING_PARTNER")
	}
	if (docType == document.DocTypeMove || docType == document.DocTypeOutbound) && fromLocationID == nil {
		return NewError("MISSING_LOCATION")
	}
	if (docType == document.DocTypeMove || docType == document.DocTypeInbound) && toLocationID == nil {
		return NewError("MISSING_LOCATION")
	}
	return nil
}

// AddLine appends one scanned line to a terminal document. The line
// inherits locations and handling units from the registered header.
// A nil LineInfo with nil error acknowledges a replayed event.
func (s *Service) AddLine(ctx context.Context, docUID string, in AddLineInput) (*LineInfo, error) {
	docUID = strings.TrimSpace(docUID)
	if strings.TrimSpace(in.EventID) == "" {
		return nil, NewError("MISSING_EVENT_ID")
	}

	var info *LineInfo
	err := s.store.InTransaction(ctx, func(st docapp.Store) error {
		replayed, stop, err := s.checkEvent(ctx, st, in.EventID, syncdomain.EventTypeDocLine, docUID)
		if err != nil {
			return err
		}
		if stop {
			if replayed {
				return nil
			}
			return NewError("EVENT_ID_CONFLICT")
		}

		ad, err := st.Sync().FindApiDoc(ctx, docUID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return NewError("DOC_NOT_FOUND")
			}
			return err
		}
		if !strings.EqualFold(ad.Status, "DRAFT") {
			return NewError("DOC_NOT_DRAFT")
		}
		if !in.Qty.IsPositive() {
			return NewError("INVALID_QTY")
		}

		item, err := s.resolveItem(ctx, st, in.ItemID, in.Barcode)
		if err != nil {
			return err
		}

		line := docapp.AddLineInput{
			ItemID:  item.ID,
			Qty:     in.Qty,
			UomCode: in.UomCode,
		}
		switch ad.DocType {
		case document.DocTypeInbound:
			if ad.ToLocationID == nil {
				return NewError("MISSING_LOCATION")
			}
			line.ToLocationID = ad.ToLocationID
			line.ToHu = ad.ToHu
		case document.DocTypeOutbound:
			if ad.FromLocationID == nil {
				return NewError("MISSING_LOCATION")
			}
			line.FromLocationID = ad.FromLocationID
			line.FromHu = ad.FromHu
		case document.DocTypeMove:
			if ad.FromLocationID == nil || ad.ToLocationID == nil {
				return NewError("MISSING_LOCATION")
			}
			line.FromLocationID = ad.FromLocationID
			line.ToLocationID = ad.ToLocationID
			line.FromHu = ad.FromHu
			line.ToHu = ad.ToHu
		default:
			return NewError("INVALID_TYPE")
		}

		created, err := s.docs.AddDocLineIn(ctx, st, ad.DocID, line)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return &Error{Code: de.Code, Message: de.Message}
			}
			return err
		}
		if err := s.recordEvent(ctx, st, in.EventID, syncdomain.EventTypeDocLine, docUID, in.DeviceID); err != nil {
			return err
		}
		info = &LineInfo{ID: created.ID, ItemID: created.ItemID, Qty: created.Qty, UomCode: created.UomCode}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *Service) resolveItem(ctx context.Context, st docapp.Store, itemID *int64, barcode string) (*catalog.Item, error) {
	if itemID != nil {
		item, err := st.Items().FindByID(ctx, *itemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, NewError("UNKNOWN_ITEM")
			}
			return nil, err
		}
		return item, nil
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, NewError("UNKNOWN_ITEM")
	}
	item, err := st.Items().FindByBarcodeVariant(ctx, barcode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, NewError("UNKNOWN_ITEM")
		}
		return nil, err
	}
	return item, nil
}

// CloseDoc validates and posts a terminal document. A rejected close
// reports its errors in the CloseInfo and records nothing, so the
// terminal can fix the draft and retry with a new event.
func (s *Service) CloseDoc(ctx context.Context, docUID, eventID, deviceID string) (*CloseInfo, error) {
	docUID = strings.TrimSpace(docUID)
	if strings.TrimSpace(eventID) == "" {
		return nil, NewError("MISSING_EVENT_ID")
	}

	var info *CloseInfo
	err := s.store.InSerializableTransaction(ctx, func(st docapp.Store) error {
		replayed, stop, err := s.checkEvent(ctx, st, eventID, syncdomain.EventTypeDocClose, docUID)
		if err != nil {
			return err
		}
		if stop {
			if replayed {
				// Echo the reference the first close reported.
				info = &CloseInfo{Closed: true}
				if ad, err := st.Sync().FindApiDoc(ctx, docUID); err == nil {
					info.DocRef = ad.DocRef
				}
				return nil
			}
			return NewError("EVENT_ID_CONFLICT")
		}

		ad, err := st.Sync().FindApiDoc(ctx, docUID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return NewError("DOC_NOT_FOUND")
			}
			return err
		}

		result, err := s.docs.TryCloseDocIn(ctx, st, ad.DocID, false)
		if err != nil {
			return err
		}
		if !result.Success {
			errs := result.Errors
			if len(errs) == 0 {
				errs = []string{"CLOSE_FAILED"}
			}
			info = &CloseInfo{Closed: false, Errors: errs, Warnings: result.Warnings}
			return nil
		}

		if err := st.Sync().UpdateApiDocStatus(ctx, docUID, "CLOSED"); err != nil {
			return err
		}
		if err := s.recordEvent(ctx, st, eventID, syncdomain.EventTypeDocClose, docUID, deviceID); err != nil {
			return err
		}
		s.log.Info("terminal document closed",
			zap.String("doc_uid", docUID),
			zap.String("doc_ref", ad.DocRef))
		info = &CloseInfo{Closed: true, DocRef: ad.DocRef, Warnings: result.Warnings}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ProcessOp handles one online operation event: it finds or creates
// the document named by the event, appends the scanned line and closes
// the document immediately, all in one transaction. A nil error means
// the event is applied or was already applied.
func (s *Service) ProcessOp(ctx context.Context, raw []byte) error {
	event, err := ParseOpEvent(raw)
	if err != nil {
		return err
	}
	if event.EventID == "" {
		return NewError("MISSING_EVENT_ID")
	}

	return s.store.InSerializableTransaction(ctx, func(st docapp.Store) error {
		if _, err := st.Sync().FindEvent(ctx, event.EventID); err == nil {
			return nil
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		op := strings.ToUpper(strings.TrimSpace(event.Op))
		isMove := op == "MOVE"
		isReceive := op == "RECEIVE" || op == "IN" || op == "INBOUND"
		isAdjustPlus := op == "ADJUST_PLUS"
		if !isMove && !isReceive && !isAdjustPlus {
			return NewError("UNSUPPORTED_OP")
		}
		if event.DocRef == "" {
			return NewError("MISSING_DOC_REF")
		}
		if event.Barcode == "" {
			return NewError("MISSING_BARCODE")
		}
		if !event.Qty.IsPositive() {
			return NewError("INVALID_QTY")
		}

		item, err := st.Items().FindByBarcodeVariant(ctx, event.Barcode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return NewError("UNKNOWN_BARCODE")
			}
			return err
		}

		var fromLocation *catalog.Location
		if isMove {
			if fromLocation, err = s.resolveLocation(ctx, st, event.FromLoc, event.FromLocationID); err != nil {
				return err
			}
		}
		toLocation, err := s.resolveLocation(ctx, st, event.ToLoc, event.ToLocationID)
		if err != nil {
			return err
		}

		docType := document.DocTypeInbound
		if isMove {
			docType = document.DocTypeMove
		}

		var docID int64
		existing, err := st.Docs().FindByRef(ctx, event.DocRef)
		switch {
		case err == nil:
			if existing.Type != docType {
				return NewError("DOC_REF_EXISTS")
			}
			if !existing.IsDraft() {
				return NewError("DOC_ALREADY_CLOSED")
			}
			docID = existing.ID
		case errors.Is(err, shared.ErrNotFound):
			doc, err := s.docs.CreateDocIn(ctx, st, docapp.CreateDocInput{Type: docType, DocRef: event.DocRef})
			if err != nil {
				return err
			}
			docID = doc.ID
		default:
			return err
		}

		fromHu := ""
		if isMove {
			fromHu = document.NormalizeHu(event.FromHu)
		}
		toHu := document.NormalizeHu(event.ToHu)
		if toHu == "" {
			toHu = document.NormalizeHu(event.HuCode)
		}
		var missing []string
		if fromHu != "" {
			if _, err := st.Hus().FindByCode(ctx, fromHu); errors.Is(err, shared.ErrNotFound) {
				missing = append(missing, "from_hu")
			} else if err != nil {
				return err
			}
		}
		if toHu != "" {
			if _, err := st.Hus().FindByCode(ctx, toHu); errors.Is(err, shared.ErrNotFound) {
				missing = append(missing, "to_hu")
			} else if err != nil {
				return err
			}
		}
		if len(missing) > 0 {
			return &Error{Code: "UNKNOWN_HU", Missing: missing}
		}

		line := docapp.AddLineInput{
			ItemID: item.ID,
			Qty:    event.Qty,
			ToHu:   toHu,
			FromHu: fromHu,
		}
		if fromLocation != nil {
			line.FromLocationID = &fromLocation.ID
		}
		line.ToLocationID = &toLocation.ID
		if _, err := s.docs.AddDocLineIn(ctx, st, docID, line); err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return &Error{Code: de.Code, Message: de.Message}
			}
			return err
		}

		// Online ops close immediately to keep server state authoritative.
		result, err := s.docs.TryCloseDocIn(ctx, st, docID, false)
		if err != nil {
			return err
		}
		if !result.Success {
			message := "CLOSE_FAILED"
			if len(result.Errors) > 0 {
				message = strings.Join(result.Errors, "; ")
			}
			return &Error{Code: "CLOSE_FAILED", Message: message, Soft: true}
		}

		if err := s.recordEvent(ctx, st, event.EventID, syncdomain.EventTypeOp, "", event.DeviceID); err != nil {
			return err
		}
		s.log.Info("operation event applied",
			zap.String("event_id", event.EventID),
			zap.String("op", op),
			zap.String("doc_ref", event.DocRef))
		return nil
	})
}

func (s *Service) resolveLocation(ctx context.Context, st docapp.Store, code string, id *int64) (*catalog.Location, error) {
	if id != nil {
		location, err := st.Locations().FindByID(ctx, *id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, s.locationError(ctx, st, "UNKNOWN_LOCATION", nil)
			}
			return nil, err
		}
		return location, nil
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, s.locationError(ctx, st, "MISSING_LOCATION", nil)
	}

	if location, err := st.Locations().FindByCode(ctx, code); err == nil {
		return location, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	byName, err := st.Locations().FindByName(ctx, code)
	if err != nil {
		return nil, err
	}
	switch len(byName) {
	case 1:
		return &byName[0], nil
	case 0:
		return nil, s.locationError(ctx, st, "UNKNOWN_LOCATION", nil)
	default:
		matches := make([]LocationMatch, 0, len(byName))
		for _, location := range byName {
			matches = append(matches, LocationMatch{ID: location.ID, Code: location.Code, Name: location.Name})
		}
		return nil, s.locationError(ctx, st, "AMBIGUOUS_LOCATION", matches)
	}
}

// locationError decorates a location failure with a handful of valid
// codes so the picker sees what the system expects.
func (s *Service) locationError(ctx context.Context, st docapp.Store, code string, matches []LocationMatch) error {
	e := &Error{Code: code, Matches: matches}
	locations, err := st.Locations().FindAll(ctx)
	if err != nil {
		return e
	}
	seen := make(map[string]struct{})
	for _, location := range locations {
		key := strings.ToLower(location.Code)
		if _, dup := seen[key]; dup || location.Code == "" {
			continue
		}
		seen[key] = struct{}{}
		e.SampleCodes = append(e.SampleCodes, location.Code)
		if len(e.SampleCodes) == 5 {
			break
		}
	}
	return e
}

func (s *Service) recordEvent(ctx context.Context, st docapp.Store, eventID, eventType, docUID, deviceID string) error {
	return st.Sync().RecordEvent(ctx, &syncdomain.ApiEvent{
		EventID:   strings.TrimSpace(eventID),
		EventType: eventType,
		DocUID:    docUID,
		DeviceID:  strings.TrimSpace(deviceID),
	})
}

func apiDocInfo(ad *syncdomain.ApiDoc) *DocInfo {
	return &DocInfo{
		ID:     ad.DocID,
		DocUID: ad.DocUID,
		DocRef: ad.DocRef,
		Status: ad.Status,
		Type:   ad.DocType,
	}
}
