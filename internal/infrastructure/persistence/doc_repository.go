package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDocRepository implements document.DocRepository using GORM
type GormDocRepository struct {
	db *gorm.DB
}

// NewGormDocRepository creates a new GormDocRepository
func NewGormDocRepository(db *gorm.DB) *GormDocRepository {
	return &GormDocRepository{db: db}
}

// Create persists a new document header
func (r *GormDocRepository) Create(ctx context.Context, doc *document.Doc) error {
	err := r.db.WithContext(ctx).Create(doc).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrDocRefExists
	}
	return err
}

// FindByID finds a document by its ID
func (r *GormDocRepository) FindByID(ctx context.Context, id int64) (*document.Doc, error) {
	var doc document.Doc
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByRef finds a document by reference, regardless of type
func (r *GormDocRepository) FindByRef(ctx context.Context, docRef string) (*document.Doc, error) {
	var doc document.Doc
	err := r.db.WithContext(ctx).
		Where("lower(doc_ref) = lower(?)", docRef).
		Order("id").
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAll lists documents newest first, optionally filtered by type
func (r *GormDocRepository) FindAll(ctx context.Context, docType document.DocType, take int) ([]document.Doc, error) {
	query := r.db.WithContext(ctx).Model(&document.Doc{}).Order("id DESC")
	if docType != "" {
		query = query.Where("type = ?", docType)
	}
	if take > 0 {
		query = query.Limit(take)
	}
	var docs []document.Doc
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByOrder lists documents linked to an order
func (r *GormDocRepository) FindByOrder(ctx context.Context, orderID int64) ([]document.Doc, error) {
	var docs []document.Doc
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// MaxRefSequence returns the highest generated sequence used in the
// given year across all document types, or zero
func (r *GormDocRepository) MaxRefSequence(ctx context.Context, year int) (int, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&document.Doc{}).
		Where("doc_ref LIKE ?", fmt.Sprintf("%%-%d-%%", year)).
		Pluck("doc_ref", &refs).Error
	if err != nil {
		return 0, err
	}
	maxSeq := 0
	for _, ref := range refs {
		if y, seq, ok := document.ParseRefSequence(ref); ok && y == year && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

// RefSequenceTaken reports whether any document occupies the given
// year/sequence slot, regardless of prefix
func (r *GormDocRepository) RefSequenceTaken(ctx context.Context, year, seq int) (bool, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&document.Doc{}).
		Where("doc_ref LIKE ?", fmt.Sprintf("%%-%d-%%", year)).
		Pluck("doc_ref", &refs).Error
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if y, s, ok := document.ParseRefSequence(ref); ok && y == year && s == seq {
			return true, nil
		}
	}
	return false, nil
}

// UpdateHeader replaces partner, order reference and header handling
// unit of a document
func (r *GormDocRepository) UpdateHeader(ctx context.Context, docID int64, partnerID *int64, orderRef, shippingRef string) error {
	return r.db.WithContext(ctx).
		Model(&document.Doc{}).
		Where("id = ?", docID).
		Updates(map[string]any{
			"partner_id":   partnerID,
			"order_ref":    orderRef,
			"shipping_ref": shippingRef,
		}).Error
}

// UpdateOrderLink attaches or detaches the source order
func (r *GormDocRepository) UpdateOrderLink(ctx context.Context, docID int64, orderID *int64, orderRef string) error {
	return r.db.WithContext(ctx).
		Model(&document.Doc{}).
		Where("id = ?", docID).
		Updates(map[string]any{
			"order_id":  orderID,
			"order_ref": orderRef,
		}).Error
}

// UpdateComment replaces the free-text comment
func (r *GormDocRepository) UpdateComment(ctx context.Context, docID int64, comment string) error {
	return r.db.WithContext(ctx).
		Model(&document.Doc{}).
		Where("id = ?", docID).
		Update("comment", comment).Error
}

// MarkClosed transitions the document to CLOSED
func (r *GormDocRepository) MarkClosed(ctx context.Context, docID int64, closedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&document.Doc{}).
		Where("id = ? AND status = ?", docID, document.DocStatusDraft).
		Updates(map[string]any{
			"status":    document.DocStatusClosed,
			"closed_at": closedAt,
		}).Error
}

// Lines returns the raw lines of a document
func (r *GormDocRepository) Lines(ctx context.Context, docID int64) ([]document.DocLine, error) {
	var lines []document.DocLine
	err := r.db.WithContext(ctx).
		Where("doc_id = ?", docID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// LineViews returns the lines joined with item and location labels
func (r *GormDocRepository) LineViews(ctx context.Context, docID int64) ([]document.DocLineView, error) {
	var views []document.DocLineView
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.id, l.doc_id, l.item_id, i.name AS item_name,
		       COALESCE(i.barcode, '') AS barcode,
		       l.qty, l.qty_input, l.uom_code,
		       l.from_location_id, COALESCE(lf.code, '') AS from_location_code,
		       l.to_location_id, COALESCE(lt.code, '') AS to_location_code,
		       l.from_hu, l.to_hu
		FROM doc_lines l
		JOIN items i ON i.id = l.item_id
		LEFT JOIN locations lf ON lf.id = l.from_location_id
		LEFT JOIN locations lt ON lt.id = l.to_location_id
		WHERE l.doc_id = ?
		ORDER BY l.id`, docID).
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// AddLine appends a line to a document
func (r *GormDocRepository) AddLine(ctx context.Context, line *document.DocLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// UpdateLineQty replaces the quantity of a line
func (r *GormDocRepository) UpdateLineQty(ctx context.Context, lineID int64, qty decimal.Decimal, qtyInput *decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&document.DocLine{}).
		Where("id = ?", lineID).
		Updates(map[string]any{
			"qty":       qty,
			"qty_input": qtyInput,
		}).Error
}

// DeleteLine removes a line
func (r *GormDocRepository) DeleteLine(ctx context.Context, lineID int64) error {
	return r.db.WithContext(ctx).Delete(&document.DocLine{}, "id = ?", lineID).Error
}

// DeleteLines removes all lines of a document
func (r *GormDocRepository) DeleteLines(ctx context.Context, docID int64) error {
	return r.db.WithContext(ctx).Delete(&document.DocLine{}, "doc_id = ?", docID).Error
}

// ShippedTotalsByOrder sums line quantities of closed outbound
// documents linked to the order, per item
func (r *GormDocRepository) ShippedTotalsByOrder(ctx context.Context, orderID int64) (map[int64]decimal.Decimal, error) {
	var rows []struct {
		ItemID int64
		Qty    decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.item_id, SUM(l.qty) AS qty
		FROM doc_lines l
		JOIN docs d ON d.id = l.doc_id
		WHERE d.order_id = ? AND d.type = ? AND d.status = ?
		GROUP BY l.item_id`,
		orderID, document.DocTypeOutbound, document.DocStatusClosed).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.ItemID] = row.Qty
	}
	return totals, nil
}
