package document

import (
	"context"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/handling"
	"github.com/wms/backend/internal/domain/order"
	syncdomain "github.com/wms/backend/internal/domain/sync"
)

// Store bundles the repositories the document workflows operate on.
// A Store handed to a transaction callback is bound to that
// transaction; writes through it commit or roll back together.
type Store interface {
	Docs() document.DocRepository
	Ledger() document.LedgerRepository
	Items() catalog.ItemRepository
	Locations() catalog.LocationRepository
	Partners() catalog.PartnerRepository
	Orders() order.Repository
	Hus() handling.Repository
	Sync() syncdomain.Repository

	// InTransaction runs fn within a transaction, passing a Store bound
	// to it.
	InTransaction(ctx context.Context, fn func(Store) error) error

	// InSerializableTransaction is InTransaction at serializable
	// isolation. Document closing runs here so that balance checks and
	// ledger writes see a single consistent snapshot.
	InSerializableTransaction(ctx context.Context, fn func(Store) error) error
}
