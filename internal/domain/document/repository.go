package document

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DocRepository defines the interface for document persistence
type DocRepository interface {
	// Create persists a new document header
	Create(ctx context.Context, doc *Doc) error

	// FindByID finds a document by its ID
	FindByID(ctx context.Context, id int64) (*Doc, error)

	// FindByRef finds a document by reference, regardless of type
	FindByRef(ctx context.Context, docRef string) (*Doc, error)

	// FindAll lists documents newest first, optionally filtered by type
	FindAll(ctx context.Context, docType DocType, take int) ([]Doc, error)

	// FindByOrder lists documents linked to an order
	FindByOrder(ctx context.Context, orderID int64) ([]Doc, error)

	// MaxRefSequence returns the highest generated sequence used in the
	// given year across all document types, or zero
	MaxRefSequence(ctx context.Context, year int) (int, error)

	// RefSequenceTaken reports whether any document occupies the given
	// year/sequence slot, regardless of prefix
	RefSequenceTaken(ctx context.Context, year, seq int) (bool, error)

	// UpdateHeader replaces partner, order reference and header handling
	// unit of a document
	UpdateHeader(ctx context.Context, docID int64, partnerID *int64, orderRef, shippingRef string) error

	// UpdateOrderLink attaches or detaches the source order
	UpdateOrderLink(ctx context.Context, docID int64, orderID *int64, orderRef string) error

	// UpdateComment replaces the free-text comment
	UpdateComment(ctx context.Context, docID int64, comment string) error

	// MarkClosed transitions the document to CLOSED
	MarkClosed(ctx context.Context, docID int64, closedAt time.Time) error

	// Lines returns the raw lines of a document
	Lines(ctx context.Context, docID int64) ([]DocLine, error)

	// LineViews returns the lines joined with item and location labels
	LineViews(ctx context.Context, docID int64) ([]DocLineView, error)

	// AddLine appends a line to a document
	AddLine(ctx context.Context, line *DocLine) error

	// UpdateLineQty replaces the quantity of a line
	UpdateLineQty(ctx context.Context, lineID int64, qty decimal.Decimal, qtyInput *decimal.Decimal) error

	// DeleteLine removes a line
	DeleteLine(ctx context.Context, lineID int64) error

	// DeleteLines removes all lines of a document
	DeleteLines(ctx context.Context, docID int64) error

	// ShippedTotalsByOrder sums line quantities of closed outbound
	// documents linked to the order, per item
	ShippedTotalsByOrder(ctx context.Context, orderID int64) (map[int64]decimal.Decimal, error)
}

// LedgerRepository defines the interface for the append-only stock ledger
type LedgerRepository interface {
	// Append writes one ledger entry
	Append(ctx context.Context, entry *LedgerEntry) error

	// Balance sums the deltas for one balance bucket. An empty hu
	// restricts the sum to stock held outside any handling unit.
	Balance(ctx context.Context, itemID, locationID int64, hu string) (decimal.Decimal, error)

	// TotalAvailable sums the deltas for an item across all locations
	// within the given handling unit scope
	TotalAvailable(ctx context.Context, itemID int64, hu string) (decimal.Decimal, error)

	// Stock lists non-zero balances grouped by item and location,
	// optionally filtered by an item name/barcode search term
	Stock(ctx context.Context, search string) ([]StockRow, error)

	// HuStock lists non-zero balances held under handling units
	HuStock(ctx context.Context) ([]HuStockRow, error)

	// HuContents lists the non-zero contents of one handling unit
	HuContents(ctx context.Context, hu string) ([]HuStockRow, error)

	// ItemBalancesByLocation lists per-location totals for one item
	ItemBalancesByLocation(ctx context.Context, itemID int64) ([]LocationBalance, error)

	// ItemBalancesByHu lists per-handling-unit totals for one item
	ItemBalancesByHu(ctx context.Context, itemID int64) ([]HuBalance, error)

	// EntriesByDoc lists the entries posted by one document
	EntriesByDoc(ctx context.Context, docID int64) ([]LedgerEntry, error)
}
