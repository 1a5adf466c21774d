package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/red445992/Code2Convert-HackForBusiness2/domain"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/database"
	"github.com/red445992/Code2Convert-HackForBusiness2/internal/migrations"
)

const (
	testShop    = "shop-1"
	testProduct = "product-1"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return db
}

func insertProduct(t *testing.T, db *sqlx.DB, id, name string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO products (id, name, category, brand, unit, default_price, is_common, created_at)
         VALUES (?, ?, 'Snacks', 'Acme', 'piece', 10, 0, '2026-01-01T00:00:00Z')`, id, name)
	require.NoError(t, err)
}

func currentStock(t *testing.T, db *sqlx.DB, shopID, productID string) int64 {
	t.Helper()
	var stock int64
	require.NoError(t, db.Get(&stock,
		`SELECT current_stock FROM inventory WHERE shop_id = ? AND product_id = ?`, shopID, productID))
	return stock
}

func transactionCount(t *testing.T, db *sqlx.DB, shopID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM transactions WHERE shop_id = ?`, shopID))
	return n
}

func TestRestockThenSale(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	restock, err := led.RecordRestock(ctx, testShop, testProduct, 10, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), restock.NewStock)
	assert.Equal(t, 50.0, restock.TotalCost)
	assert.NotEmpty(t, restock.TransactionID)

	sale, err := led.RecordSale(ctx, testShop, testProduct, 3, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sale.NewStock)
	assert.Equal(t, 24.0, sale.TotalAmount)

	_, err = led.RecordSale(ctx, testShop, testProduct, 100, 0)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(7), insufficient.Available)
	assert.Equal(t, int64(100), insufficient.Requested)

	assert.Equal(t, int64(7), currentStock(t, db, testShop, testProduct))
	assert.Equal(t, int64(2), transactionCount(t, db, testShop))
}

func TestInvalidQuantityTouchesNothing(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	_, err := led.RecordRestock(ctx, testShop, testProduct, 0, 5, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = led.RecordSale(ctx, testShop, testProduct, -1, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	var rows int64
	require.NoError(t, db.Get(&rows, `SELECT COUNT(*) FROM inventory`))
	assert.Zero(t, rows)
	assert.Zero(t, transactionCount(t, db, testShop))
}

func TestSaleWithoutInventoryAnchorsPrice(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))

	_, err := led.RecordSale(context.Background(), testShop, testProduct, 1, 9)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(0), insufficient.Available)
	assert.Equal(t, int64(1), insufficient.Requested)

	// The zero-stock row is kept so the supplied price survives, but no
	// transaction is appended.
	var inv domain.Inventory
	require.NoError(t, db.Get(&inv,
		`SELECT * FROM inventory WHERE shop_id = ? AND product_id = ?`, testShop, testProduct))
	assert.Equal(t, int64(0), inv.CurrentStock)
	assert.Equal(t, 9.0, inv.SellingPrice)
	assert.Zero(t, transactionCount(t, db, testShop))
}

func TestPriceOverrideRules(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	_, err := led.RecordRestock(ctx, testShop, testProduct, 10, 5, 12)
	require.NoError(t, err)

	// A zero cost override leaves the stored price alone, and the
	// transaction total falls back to it.
	restock, err := led.RecordRestock(ctx, testShop, testProduct, 4, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, restock.TotalCost)

	var inv domain.Inventory
	require.NoError(t, db.Get(&inv,
		`SELECT * FROM inventory WHERE shop_id = ? AND product_id = ?`, testShop, testProduct))
	assert.Equal(t, 5.0, inv.CostPrice)
	assert.Equal(t, 12.0, inv.SellingPrice)

	// A positive override overwrites.
	_, err = led.RecordRestock(ctx, testShop, testProduct, 1, 7, 0)
	require.NoError(t, err)
	require.NoError(t, db.Get(&inv,
		`SELECT * FROM inventory WHERE shop_id = ? AND product_id = ?`, testShop, testProduct))
	assert.Equal(t, 7.0, inv.CostPrice)

	// A sale without an override uses and keeps the stored selling price.
	sale, err := led.RecordSale(ctx, testShop, testProduct, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 24.0, sale.TotalAmount)
	require.NoError(t, db.Get(&inv,
		`SELECT * FROM inventory WHERE shop_id = ? AND product_id = ?`, testShop, testProduct))
	assert.Equal(t, 12.0, inv.SellingPrice)
}

func TestSalesAreNotIdempotent(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	_, err := led.RecordRestock(ctx, testShop, testProduct, 10, 0, 5)
	require.NoError(t, err)

	first, err := led.RecordSale(ctx, testShop, testProduct, 2, 0)
	require.NoError(t, err)
	second, err := led.RecordSale(ctx, testShop, testProduct, 2, 0)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, int64(6), second.NewStock)
	assert.Equal(t, int64(3), transactionCount(t, db, testShop))
}

func TestReplayConsistency(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	steps := []struct {
		kind string
		qty  int64
	}{
		{"restock", 20}, {"sale", 5}, {"restock", 3}, {"sale", 11}, {"sale", 2}, {"restock", 1},
	}
	for _, step := range steps {
		var err error
		if step.kind == "restock" {
			_, err = led.RecordRestock(ctx, testShop, testProduct, step.qty, 2, 4)
		} else {
			_, err = led.RecordSale(ctx, testShop, testProduct, step.qty, 0)
		}
		require.NoError(t, err)
	}

	var replayed int64
	require.NoError(t, db.Get(&replayed, `
        SELECT COALESCE(SUM(CASE WHEN transaction_type = 'restock' THEN quantity ELSE -quantity END), 0)
        FROM transactions WHERE shop_id = ? AND product_id = ?`, testShop, testProduct))
	assert.Equal(t, replayed, currentStock(t, db, testShop, testProduct))
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	_, err := led.RecordRestock(ctx, testShop, testProduct, 20, 1, 2)
	require.NoError(t, err)

	const attempts = 50
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		sold   int
		denied int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := led.RecordSale(ctx, testShop, testProduct, 1, 0)
			mu.Lock()
			defer mu.Unlock()
			var insufficient *InsufficientStockError
			switch {
			case err == nil:
				sold++
			case errors.As(err, &insufficient):
				denied++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, sold)
	assert.Equal(t, 30, denied)
	assert.Equal(t, int64(0), currentStock(t, db, testShop, testProduct))
	// One restock plus one transaction per successful sale.
	assert.Equal(t, int64(21), transactionCount(t, db, testShop))
}

func TestGetInventoryViews(t *testing.T) {
	db := newTestDB(t)
	led := New(NewSQLStore(db))
	ctx := context.Background()

	insertProduct(t, db, "p-tea", "Everest Masala Tea")
	insertProduct(t, db, "p-cola", "Coca Cola 250ml")

	_, err := led.RecordRestock(ctx, testShop, "p-tea", 3, 10, 15)
	require.NoError(t, err)
	_, err = led.RecordRestock(ctx, testShop, "p-cola", 50, 18, 25)
	require.NoError(t, err)

	views, err := led.GetInventory(ctx, testShop)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Ordered by product name; stock at or below the reorder level is
	// flagged low.
	assert.Equal(t, "Coca Cola 250ml", views[0].ProductName)
	assert.False(t, views[0].LowStock)
	assert.Equal(t, "Everest Masala Tea", views[1].ProductName)
	assert.True(t, views[1].LowStock)
	assert.Equal(t, int64(3), views[1].CurrentStock)
	assert.Equal(t, 15.0, views[1].SellingPrice)
	assert.Equal(t, "piece", views[1].Unit)
}

func TestStatsPinnedToCalendarDay(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLStore(db)
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	backdated := New(store,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return today.Add(-48 * time.Hour) }))
	led := New(store,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return today }))

	ctx := context.Background()
	_, err := backdated.RecordRestock(ctx, testShop, testProduct, 100, 2, 10)
	require.NoError(t, err)
	_, err = backdated.RecordSale(ctx, testShop, testProduct, 5, 0)
	require.NoError(t, err)

	_, err = led.RecordSale(ctx, testShop, testProduct, 3, 0)
	require.NoError(t, err)
	_, err = led.RecordSale(ctx, testShop, testProduct, 2, 20)
	require.NoError(t, err)

	stats, err := led.GetStats(ctx, testShop)
	require.NoError(t, err)

	// Only today's two sales count: 3×10 + 2×20.
	assert.Equal(t, int64(2), stats.TodaySalesCount)
	assert.Equal(t, 70.0, stats.TodaySalesAmount)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(0), stats.LowStockCount)
	// 90 units remain at the persisted override price of 20.
	assert.Equal(t, 1800.0, stats.InventoryValue)
}

type failingStore struct{}

func (failingStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return fmt.Errorf("%w: disk gone", ErrStoreUnavailable)
}

func (failingStore) ListInventory(ctx context.Context, shopID string) ([]domain.InventoryView, error) {
	return nil, fmt.Errorf("%w: disk gone", ErrStoreUnavailable)
}

func (failingStore) ShopStats(ctx context.Context, shopID string, dayStart, dayEnd time.Time) (domain.ShopStats, error) {
	return domain.ShopStats{}, fmt.Errorf("%w: disk gone", ErrStoreUnavailable)
}

func TestStoreFailureSurfaces(t *testing.T) {
	led := New(failingStore{})

	_, err := led.RecordSale(context.Background(), testShop, testProduct, 1, 0)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = led.RecordRestock(context.Background(), testShop, testProduct, 1, 0, 0)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
