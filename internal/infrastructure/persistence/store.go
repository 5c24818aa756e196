package persistence

import (
	"context"
	"database/sql"

	docapp "github.com/wms/backend/internal/application/document"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/handling"
	"github.com/wms/backend/internal/domain/order"
	syncdomain "github.com/wms/backend/internal/domain/sync"
	"gorm.io/gorm"
)

// GormStore implements the application Store over a gorm handle. The
// handle may be the root connection or a transaction; transactional
// callbacks receive a GormStore bound to the transaction handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Docs returns the document repository
func (s *GormStore) Docs() document.DocRepository {
	return NewGormDocRepository(s.db)
}

// Ledger returns the stock ledger repository
func (s *GormStore) Ledger() document.LedgerRepository {
	return NewGormLedgerRepository(s.db)
}

// Items returns the item repository
func (s *GormStore) Items() catalog.ItemRepository {
	return NewGormItemRepository(s.db)
}

// Locations returns the location repository
func (s *GormStore) Locations() catalog.LocationRepository {
	return NewGormLocationRepository(s.db)
}

// Partners returns the partner repository
func (s *GormStore) Partners() catalog.PartnerRepository {
	return NewGormPartnerRepository(s.db)
}

// Orders returns the order repository
func (s *GormStore) Orders() order.Repository {
	return NewGormOrderRepository(s.db)
}

// Hus returns the handling unit repository
func (s *GormStore) Hus() handling.Repository {
	return NewGormHuRepository(s.db)
}

// Sync returns the sync record repository
func (s *GormStore) Sync() syncdomain.Repository {
	return NewGormSyncRepository(s.db)
}

// InTransaction runs fn within a transaction, passing a Store bound
// to it
func (s *GormStore) InTransaction(ctx context.Context, fn func(docapp.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// InSerializableTransaction is InTransaction at serializable isolation
func (s *GormStore) InSerializableTransaction(ctx context.Context, fn func(docapp.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
