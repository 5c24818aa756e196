package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/document"
	"gorm.io/gorm"
)

// GormLedgerRepository implements document.LedgerRepository using GORM.
// The ledger table is append-only; every read is an aggregate over it.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append writes one ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *document.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Balance sums the deltas for one balance bucket
func (r *GormLedgerRepository) Balance(ctx context.Context, itemID, locationID int64, hu string) (decimal.Decimal, error) {
	var balance decimal.NullDecimal
	row := r.db.WithContext(ctx).Raw(`
		SELECT SUM(qty_delta)
		FROM ledger_entries
		WHERE item_id = ? AND location_id = ? AND upper(hu_code) = upper(?)`,
		itemID, locationID, hu).Row()
	if err := row.Scan(&balance); err != nil {
		return decimal.Decimal{}, err
	}
	return balance.Decimal, nil
}

// TotalAvailable sums the deltas for an item across all locations
// within the given handling unit scope
func (r *GormLedgerRepository) TotalAvailable(ctx context.Context, itemID int64, hu string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := r.db.WithContext(ctx).Raw(`
		SELECT SUM(qty_delta)
		FROM ledger_entries
		WHERE item_id = ? AND upper(hu_code) = upper(?)`,
		itemID, hu).Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Decimal{}, err
	}
	return total.Decimal, nil
}

// Stock lists non-zero balances grouped by item and location
func (r *GormLedgerRepository) Stock(ctx context.Context, search string) ([]document.StockRow, error) {
	query := `
		SELECT e.item_id, i.name AS item_name, COALESCE(i.barcode, '') AS barcode,
		       i.uom_code, e.location_id, loc.code AS location_code,
		       SUM(e.qty_delta) AS qty
		FROM ledger_entries e
		JOIN items i ON i.id = e.item_id
		JOIN locations loc ON loc.id = e.location_id`
	args := []any{}
	if search != "" {
		query += `
		WHERE lower(i.name) LIKE lower(?) OR i.barcode LIKE ? OR i.gtin LIKE ?`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += `
		GROUP BY e.item_id, i.name, i.barcode, i.uom_code, e.location_id, loc.code
		HAVING SUM(e.qty_delta) <> 0
		ORDER BY i.name, lower(loc.code)`

	var rows []document.StockRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// HuStock lists non-zero balances held under handling units
func (r *GormLedgerRepository) HuStock(ctx context.Context) ([]document.HuStockRow, error) {
	var rows []document.HuStockRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.hu_code, e.item_id, i.name AS item_name,
		       e.location_id, loc.code AS location_code,
		       SUM(e.qty_delta) AS qty
		FROM ledger_entries e
		JOIN items i ON i.id = e.item_id
		JOIN locations loc ON loc.id = e.location_id
		WHERE e.hu_code <> ''
		GROUP BY e.hu_code, e.item_id, i.name, e.location_id, loc.code
		HAVING SUM(e.qty_delta) <> 0
		ORDER BY e.hu_code, i.name, lower(loc.code)`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HuContents lists the non-zero contents of one handling unit
func (r *GormLedgerRepository) HuContents(ctx context.Context, hu string) ([]document.HuStockRow, error) {
	var rows []document.HuStockRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.hu_code, e.item_id, i.name AS item_name,
		       e.location_id, loc.code AS location_code,
		       SUM(e.qty_delta) AS qty
		FROM ledger_entries e
		JOIN items i ON i.id = e.item_id
		JOIN locations loc ON loc.id = e.location_id
		WHERE upper(e.hu_code) = upper(?)
		GROUP BY e.hu_code, e.item_id, i.name, e.location_id, loc.code
		HAVING SUM(e.qty_delta) <> 0
		ORDER BY i.name, lower(loc.code)`, hu).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ItemBalancesByLocation lists per-location totals for one item
func (r *GormLedgerRepository) ItemBalancesByLocation(ctx context.Context, itemID int64) ([]document.LocationBalance, error) {
	var rows []document.LocationBalance
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.location_id, loc.code AS location_code, SUM(e.qty_delta) AS qty
		FROM ledger_entries e
		JOIN locations loc ON loc.id = e.location_id
		WHERE e.item_id = ?
		GROUP BY e.location_id, loc.code
		HAVING SUM(e.qty_delta) <> 0
		ORDER BY lower(loc.code)`, itemID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ItemBalancesByHu lists per-handling-unit totals for one item
func (r *GormLedgerRepository) ItemBalancesByHu(ctx context.Context, itemID int64) ([]document.HuBalance, error) {
	var rows []document.HuBalance
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.hu_code, e.location_id, loc.code AS location_code, SUM(e.qty_delta) AS qty
		FROM ledger_entries e
		JOIN locations loc ON loc.id = e.location_id
		WHERE e.item_id = ? AND e.hu_code <> ''
		GROUP BY e.hu_code, e.location_id, loc.code
		HAVING SUM(e.qty_delta) <> 0
		ORDER BY e.hu_code, lower(loc.code)`, itemID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// EntriesByDoc lists the entries posted by one document
func (r *GormLedgerRepository) EntriesByDoc(ctx context.Context, docID int64) ([]document.LedgerEntry, error) {
	var entries []document.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("doc_id = ?", docID).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
