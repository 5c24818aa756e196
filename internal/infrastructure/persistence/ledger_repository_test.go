package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/document"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&catalog.Item{}, &catalog.Location{},
		&document.Doc{}, &document.LedgerEntry{},
	))
	return db
}

func seedLedgerCatalog(t *testing.T, db *gorm.DB) (item catalog.Item, a1, b1 catalog.Location) {
	t.Helper()
	item = catalog.Item{Name: "Hex Bolt M8", UomCode: "pcs"}
	require.NoError(t, db.Create(&item).Error)
	a1 = catalog.Location{Code: "A1"}
	require.NoError(t, db.Create(&a1).Error)
	b1 = catalog.Location{Code: "B1"}
	require.NoError(t, db.Create(&b1).Error)
	return item, a1, b1
}

func appendEntry(t *testing.T, repo *GormLedgerRepository, itemID, locationID int64, delta string, hu string) {
	t.Helper()
	d, err := decimal.NewFromString(delta)
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), &document.LedgerEntry{
		DocID:      1,
		ItemID:     itemID,
		LocationID: locationID,
		QtyDelta:   d,
		HuCode:     hu,
		Timestamp:  time.Now(),
	}))
}

func TestLedgerBalanceBuckets(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerTestDB(t)
	item, a1, _ := seedLedgerCatalog(t, db)
	repo := NewGormLedgerRepository(db)

	appendEntry(t, repo, item.ID, a1.ID, "10", "")
	appendEntry(t, repo, item.ID, a1.ID, "-3", "")
	appendEntry(t, repo, item.ID, a1.ID, "5", "HU-000001")

	// Loose stock and unit stock are separate buckets.
	balance, err := repo.Balance(ctx, item.ID, a1.ID, "")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(7)))

	balance, err = repo.Balance(ctx, item.ID, a1.ID, "HU-000001")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(5)))

	// Unit codes compare case-insensitively.
	balance, err = repo.Balance(ctx, item.ID, a1.ID, "hu-000001")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(5)))

	// An empty bucket sums to zero, not an error.
	balance, err = repo.Balance(ctx, item.ID, 99999, "")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	total, err := repo.TotalAvailable(ctx, item.ID, "")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(7)))
}

func TestLedgerStockSkipsZeroBalances(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerTestDB(t)
	item, a1, b1 := seedLedgerCatalog(t, db)
	repo := NewGormLedgerRepository(db)

	appendEntry(t, repo, item.ID, a1.ID, "10", "")
	appendEntry(t, repo, item.ID, a1.ID, "-10", "")
	appendEntry(t, repo, item.ID, b1.ID, "4", "")

	rows, err := repo.Stock(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b1.ID, rows[0].LocationID)
	assert.Equal(t, "B1", rows[0].LocationCode)
	assert.True(t, rows[0].Qty.Equal(decimal.NewFromInt(4)))
}

func TestLedgerHuQueries(t *testing.T) {
	ctx := context.Background()
	db := setupLedgerTestDB(t)
	item, a1, b1 := seedLedgerCatalog(t, db)
	repo := NewGormLedgerRepository(db)

	appendEntry(t, repo, item.ID, a1.ID, "10", "HU-000001")
	appendEntry(t, repo, item.ID, a1.ID, "-10", "HU-000001")
	appendEntry(t, repo, item.ID, b1.ID, "10", "HU-000001")
	appendEntry(t, repo, item.ID, a1.ID, "3", "HU-000002")
	appendEntry(t, repo, item.ID, a1.ID, "6", "")

	rows, err := repo.HuStock(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HU-000001", rows[0].HuCode)
	assert.Equal(t, b1.ID, rows[0].LocationID)
	assert.Equal(t, "HU-000002", rows[1].HuCode)

	contents, err := repo.HuContents(ctx, "hu-000001")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.True(t, contents[0].Qty.Equal(decimal.NewFromInt(10)))

	byLoc, err := repo.ItemBalancesByLocation(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, byLoc, 2)
	assert.Equal(t, "A1", byLoc[0].LocationCode)
	assert.True(t, byLoc[0].Qty.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, "B1", byLoc[1].LocationCode)
	assert.True(t, byLoc[1].Qty.Equal(decimal.NewFromInt(10)))

	byHu, err := repo.ItemBalancesByHu(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, byHu, 2)
}
