package sync_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docapp "github.com/wms/backend/internal/application/document"
	syncapp "github.com/wms/backend/internal/application/sync"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/handling"
	"github.com/wms/backend/internal/domain/order"
	"github.com/wms/backend/internal/domain/shared"
	syncdomain "github.com/wms/backend/internal/domain/sync"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	ctx   context.Context
	store docapp.Store
	docs  *docapp.Service
	sync  *syncapp.Service

	bolt *catalog.Item
	a1   *catalog.Location
	b1   *catalog.Location
	acme *catalog.Partner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory DB.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&catalog.Item{}, &catalog.Location{}, &catalog.Partner{},
		&order.Order{}, &order.OrderLine{}, &handling.Hu{},
		&document.Doc{}, &document.DocLine{}, &document.LedgerEntry{},
		&syncdomain.ApiDoc{}, &syncdomain.ApiEvent{},
	))

	ctx := context.Background()
	store := persistence.NewGormStore(db)
	docs := docapp.NewService(store, docapp.NewRefGenerator())
	f := &fixture{
		ctx:   ctx,
		store: store,
		docs:  docs,
		sync:  syncapp.NewService(store, docs, zap.NewNop()),
	}

	f.bolt = &catalog.Item{Name: "Hex Bolt M8", UomCode: "pcs"}
	f.bolt.SetBarcode("4006381333931")
	require.NoError(t, store.Items().Create(ctx, f.bolt))

	f.a1 = &catalog.Location{Code: "A1", Name: "Rack A"}
	require.NoError(t, store.Locations().Create(ctx, f.a1))
	f.b1 = &catalog.Location{Code: "B1", Name: "Rack B"}
	require.NoError(t, store.Locations().Create(ctx, f.b1))

	f.acme = &catalog.Partner{Name: "Acme Supply", Role: catalog.PartnerRoleBoth}
	require.NoError(t, store.Partners().Create(ctx, f.acme))
	return f
}

func (f *fixture) seedStock(t *testing.T, loc *catalog.Location, q string) {
	t.Helper()
	doc, err := f.docs.CreateDoc(f.ctx, docapp.CreateDocInput{Type: document.DocTypeInbound, DocRef: "SEED-" + loc.Code + "-" + q})
	require.NoError(t, err)
	_, err = f.docs.AddDocLine(f.ctx, doc.ID, docapp.AddLineInput{
		ItemID:       f.bolt.ID,
		Qty:          qty(q),
		ToLocationID: &loc.ID,
	})
	require.NoError(t, err)
	result, err := f.docs.TryCloseDoc(f.ctx, doc.ID, false)
	require.NoError(t, err)
	require.True(t, result.Success, "seed close failed: %v", result.Errors)
}

func syncCode(t *testing.T, err error) string {
	t.Helper()
	var se *syncapp.Error
	require.True(t, errors.As(err, &se), "expected sync error, got %v", err)
	return se.Code
}

func TestCreateDocRegistersAndReplays(t *testing.T) {
	f := newFixture(t)

	info, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID:       "uid-1",
		EventID:      "ev-1",
		Type:         "IN",
		PartnerID:    &f.acme.ID,
		ToLocationID: &f.a1.ID,
		DeviceID:     "tsd-07",
	})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "uid-1", info.DocUID)
	assert.Equal(t, document.DocTypeInbound, info.Type)
	assert.Equal(t, "DRAFT", info.Status)
	assert.True(t, strings.HasPrefix(info.DocRef, "IN-"), "generated ref %q", info.DocRef)
	assert.False(t, info.DocRefChanged)

	// Replaying the same event returns the registration unchanged.
	replay, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID:       "uid-1",
		EventID:      "ev-1",
		Type:         "IN",
		PartnerID:    &f.acme.ID,
		ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, info.DocRef, replay.DocRef)

	docs, err := f.store.Docs().FindAll(f.ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestCreateDocValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{EventID: "ev-1", Type: "IN"})
	assert.Equal(t, "MISSING_DOC_UID", syncCode(t, err))

	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{DocUID: "uid-1", Type: "IN"})
	assert.Equal(t, "MISSING_EVENT_ID", syncCode(t, err))

	// Write-offs stay back-office only.
	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{DocUID: "uid-1", EventID: "ev-1", Type: "WO"})
	assert.Equal(t, "INVALID_TYPE", syncCode(t, err))

	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{DocUID: "uid-1", EventID: "ev-1", Type: "IN", PartnerID: &f.acme.ID})
	assert.Equal(t, "MISSING_LOCATION", syncCode(t, err))

	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{DocUID: "uid-1", EventID: "ev-1", Type: "IN", ToLocationID: &f.a1.ID})
	assert.Equal(t, "MISSING_PARTNER", syncCode(t, err))

	// DraftOnly suppresses the completeness requirements.
	info, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN", DraftOnly: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, info)

	unknown := int64(99999)
	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-2", EventID: "ev-2", Type: "IN", DraftOnly: true, ToLocationID: &unknown,
	})
	assert.Equal(t, "UNKNOWN_LOCATION", syncCode(t, err))

	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-3", EventID: "ev-3", Type: "IN", DraftOnly: true, ToHu: "HU-999999",
	})
	var se *syncapp.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "UNKNOWN_HU", se.Code)
	assert.Equal(t, []string{"to_hu"}, se.Missing)
}

func TestCreateDocEnrichment(t *testing.T) {
	f := newFixture(t)

	_, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN", DraftOnly: true,
	})
	require.NoError(t, err)

	// A later event fills in the blanks.
	info, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-2", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, info)

	ad, err := f.store.Sync().FindApiDoc(f.ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, f.acme.ID, *ad.PartnerID)
	assert.Equal(t, f.a1.ID, *ad.ToLocationID)

	// Contradicting an already filled field is a different document.
	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-3", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.b1.ID,
	})
	assert.Equal(t, "DUPLICATE_DOC_UID", syncCode(t, err))

	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-4", Type: "MOVE", DraftOnly: true,
	})
	assert.Equal(t, "DUPLICATE_DOC_UID", syncCode(t, err))
}

func TestEventIDConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)

	// The same event ID for a different operation is a conflict.
	_, err = f.sync.AddLine(f.ctx, "uid-1", syncapp.AddLineInput{
		EventID: "ev-1",
		Barcode: "4006381333931",
		Qty:     qty("1"),
	})
	assert.Equal(t, "EVENT_ID_CONFLICT", syncCode(t, err))

	// So is reusing it for another document.
	_, err = f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-2", EventID: "ev-1", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	assert.Equal(t, "EVENT_ID_CONFLICT", syncCode(t, err))
}

func TestAddLineInheritsHeader(t *testing.T) {
	f := newFixture(t)

	_, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)

	line, err := f.sync.AddLine(f.ctx, "uid-1", syncapp.AddLineInput{
		EventID: "ev-2",
		Barcode: "04006381333931", // padded GTIN-14 spelling
		Qty:     qty("3"),
	})
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, f.bolt.ID, line.ItemID)
	assert.True(t, line.Qty.Equal(qty("3")))

	ad, err := f.store.Sync().FindApiDoc(f.ctx, "uid-1")
	require.NoError(t, err)
	lines, err := f.store.Docs().Lines(f.ctx, ad.DocID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].ToLocationID)
	assert.Equal(t, f.a1.ID, *lines[0].ToLocationID)

	// Replaying the upload does not duplicate the line.
	replay, err := f.sync.AddLine(f.ctx, "uid-1", syncapp.AddLineInput{
		EventID: "ev-2",
		Barcode: "04006381333931",
		Qty:     qty("3"),
	})
	require.NoError(t, err)
	assert.Nil(t, replay)
	lines, err = f.store.Docs().Lines(f.ctx, ad.DocID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	_, err = f.sync.AddLine(f.ctx, "uid-1", syncapp.AddLineInput{
		EventID: "ev-3",
		Barcode: "0000000000000",
		Qty:     qty("1"),
	})
	assert.Equal(t, "UNKNOWN_ITEM", syncCode(t, err))

	_, err = f.sync.AddLine(f.ctx, "unknown-uid", syncapp.AddLineInput{
		EventID: "ev-4",
		Barcode: "4006381333931",
		Qty:     qty("1"),
	})
	assert.Equal(t, "DOC_NOT_FOUND", syncCode(t, err))
}

func TestCloseDocIdempotent(t *testing.T) {
	f := newFixture(t)

	_, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)
	_, err = f.sync.AddLine(f.ctx, "uid-1", syncapp.AddLineInput{
		EventID: "ev-2",
		Barcode: "4006381333931",
		Qty:     qty("10"),
	})
	require.NoError(t, err)

	info, err := f.sync.CloseDoc(f.ctx, "uid-1", "ev-3", "tsd-07")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.Closed)
	assert.True(t, strings.HasPrefix(info.DocRef, "IN-"))

	balance, err := f.store.Ledger().Balance(f.ctx, f.bolt.ID, f.a1.ID, "")
	require.NoError(t, err)
	assert.True(t, balance.Equal(qty("10")))

	// Replaying the close acknowledges with the same reference and
	// without posting again.
	replay, err := f.sync.CloseDoc(f.ctx, "uid-1", "ev-3", "tsd-07")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.True(t, replay.Closed)
	assert.Equal(t, info.DocRef, replay.DocRef)
	balance, err = f.store.Ledger().Balance(f.ctx, f.bolt.ID, f.a1.ID, "")
	require.NoError(t, err)
	assert.True(t, balance.Equal(qty("10")))
}

func TestCloseDocRejectionRecordsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)

	// Closing an empty document is refused, not failed.
	info, err := f.sync.CloseDoc(f.ctx, "uid-1", "ev-2", "")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.False(t, info.Closed)
	require.NotEmpty(t, info.Errors)
	assert.Contains(t, info.Errors[0], "no lines")

	// The event was not consumed, so the fixed draft can retry with it.
	_, err = f.store.Sync().FindEvent(f.ctx, "ev-2")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.sync.AddLine(f.ctx, "uid-1", syncapp.AddLineInput{
		EventID: "ev-3",
		Barcode: "4006381333931",
		Qty:     qty("2"),
	})
	require.NoError(t, err)

	info, err = f.sync.CloseDoc(f.ctx, "uid-1", "ev-2", "")
	require.NoError(t, err)
	assert.True(t, info.Closed)
}

func TestCreateDocRefFallback(t *testing.T) {
	f := newFixture(t)

	// Occupy the requested reference ahead of the terminal.
	_, err := f.docs.CreateDoc(f.ctx, docapp.CreateDocInput{
		Type:   document.DocTypeInbound,
		DocRef: "DELIVERY-7",
	})
	require.NoError(t, err)

	info, err := f.sync.CreateDoc(f.ctx, syncapp.CreateDocInput{
		DocUID: "uid-1", EventID: "ev-1", Type: "IN", DocRef: "DELIVERY-7",
		PartnerID: &f.acme.ID, ToLocationID: &f.a1.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.NotEqual(t, "DELIVERY-7", info.DocRef)
	assert.True(t, info.DocRefChanged)
}

func TestProcessOpReceive(t *testing.T) {
	f := newFixture(t)

	raw := []byte(fmt.Sprintf(`{
		"event_id": "op-1",
		"op": "RECEIVE",
		"doc_ref": "TSD-IN-1",
		"barcode": "4006381333931",
		"qty": "7",
		"to_loc": "%s",
		"device_id": "tsd-07"
	}`, f.a1.Code))
	require.NoError(t, f.sync.ProcessOp(f.ctx, raw))

	balance, err := f.store.Ledger().Balance(f.ctx, f.bolt.ID, f.a1.ID, "")
	require.NoError(t, err)
	assert.True(t, balance.Equal(qty("7")))

	doc, err := f.store.Docs().FindByRef(f.ctx, "TSD-IN-1")
	require.NoError(t, err)
	assert.Equal(t, document.DocStatusClosed, doc.Status)

	// Replays apply nothing.
	require.NoError(t, f.sync.ProcessOp(f.ctx, raw))
	balance, err = f.store.Ledger().Balance(f.ctx, f.bolt.ID, f.a1.ID, "")
	require.NoError(t, err)
	assert.True(t, balance.Equal(qty("7")))
}

func TestProcessOpMove(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, f.a1, "10")

	raw := []byte(fmt.Sprintf(`{
		"eventId": "op-1",
		"op": "MOVE",
		"docRef": "TSD-MOVE-1",
		"barcode": "4006381333931",
		"qty": 4,
		"fromLoc": "%s",
		"toLoc": "%s"
	}`, f.a1.Code, f.b1.Code))
	require.NoError(t, f.sync.ProcessOp(f.ctx, raw))

	fromBalance, err := f.store.Ledger().Balance(f.ctx, f.bolt.ID, f.a1.ID, "")
	require.NoError(t, err)
	assert.True(t, fromBalance.Equal(qty("6")))
	toBalance, err := f.store.Ledger().Balance(f.ctx, f.bolt.ID, f.b1.ID, "")
	require.NoError(t, err)
	assert.True(t, toBalance.Equal(qty("4")))
}

func TestProcessOpLocationErrors(t *testing.T) {
	f := newFixture(t)

	err := f.sync.ProcessOp(f.ctx, []byte(`{
		"event_id": "op-1",
		"op": "RECEIVE",
		"doc_ref": "TSD-IN-1",
		"barcode": "4006381333931",
		"qty": "1",
		"to_loc": "NOPE"
	}`))
	var se *syncapp.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "UNKNOWN_LOCATION", se.Code)
	assert.Contains(t, se.SampleCodes, "A1")

	// Two locations sharing a name resolve ambiguously.
	dup1 := &catalog.Location{Code: "C1", Name: "Mezzanine"}
	dup2 := &catalog.Location{Code: "C2", Name: "Mezzanine"}
	require.NoError(t, f.store.Locations().Create(f.ctx, dup1))
	require.NoError(t, f.store.Locations().Create(f.ctx, dup2))

	err = f.sync.ProcessOp(f.ctx, []byte(`{
		"event_id": "op-2",
		"op": "RECEIVE",
		"doc_ref": "TSD-IN-1",
		"barcode": "4006381333931",
		"qty": "1",
		"to_loc": "Mezzanine"
	}`))
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "AMBIGUOUS_LOCATION", se.Code)
	assert.Len(t, se.Matches, 2)
}

func TestProcessOpValidation(t *testing.T) {
	f := newFixture(t)

	err := f.sync.ProcessOp(f.ctx, []byte(`not json`))
	assert.Equal(t, "INVALID_JSON", syncCode(t, err))

	err = f.sync.ProcessOp(f.ctx, []byte(`{"op": "RECEIVE"}`))
	assert.Equal(t, "MISSING_EVENT_ID", syncCode(t, err))

	err = f.sync.ProcessOp(f.ctx, []byte(`{"event_id": "op-1", "op": "EXPLODE"}`))
	assert.Equal(t, "UNSUPPORTED_OP", syncCode(t, err))

	err = f.sync.ProcessOp(f.ctx, []byte(fmt.Sprintf(`{
		"event_id": "op-2",
		"op": "RECEIVE",
		"doc_ref": "TSD-IN-1",
		"barcode": "0000000000000",
		"qty": "1",
		"to_loc": "%s"
	}`, f.a1.Code)))
	assert.Equal(t, "UNKNOWN_BARCODE", syncCode(t, err))
}
