package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/red445992/Code2Convert-HackForBusiness2/domain"
)

// SQLStore implements Store over the sqlite schema.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLStore) ListInventory(ctx context.Context, shopID string) ([]domain.InventoryView, error) {
	views := []domain.InventoryView{}
	err := s.db.SelectContext(ctx, &views, `
        SELECT i.id, i.product_id, p.name AS product_name, p.category, p.brand, p.unit, p.image_url,
               i.current_stock, i.selling_price, i.cost_price, i.reorder_level,
               CASE WHEN i.current_stock <= i.reorder_level THEN 1 ELSE 0 END AS low_stock,
               i.last_updated
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        WHERE i.shop_id = ? AND i.is_active = 1
        ORDER BY p.name`, shopID)
	if err != nil {
		return nil, fmt.Errorf("%w: list inventory: %v", ErrStoreUnavailable, err)
	}
	return views, nil
}

func (s *SQLStore) ShopStats(ctx context.Context, shopID string, dayStart, dayEnd time.Time) (domain.ShopStats, error) {
	var stats domain.ShopStats
	err := s.db.GetContext(ctx, &stats, `
        SELECT COUNT(*) AS total_products,
               COALESCE(SUM(CASE WHEN current_stock <= reorder_level THEN 1 ELSE 0 END), 0) AS low_stock_count,
               COALESCE(SUM(current_stock * selling_price), 0) AS inventory_value
        FROM inventory
        WHERE shop_id = ? AND is_active = 1`, shopID)
	if err != nil {
		return domain.ShopStats{}, fmt.Errorf("%w: inventory stats: %v", ErrStoreUnavailable, err)
	}

	err = s.db.QueryRowxContext(ctx, `
        SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
        FROM transactions
        WHERE shop_id = ? AND transaction_type = ? AND occurred_at >= ? AND occurred_at < ?`,
		shopID, domain.TransactionSale, formatTime(dayStart), formatTime(dayEnd),
	).Scan(&stats.TodaySalesAmount, &stats.TodaySalesCount)
	if err != nil {
		return domain.ShopStats{}, fmt.Errorf("%w: sales stats: %v", ErrStoreUnavailable, err)
	}
	return stats, nil
}

type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) GetInventory(ctx context.Context, shopID, productID string) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := t.tx.GetContext(ctx, &inv,
		`SELECT * FROM inventory WHERE shop_id = ? AND product_id = ?`, shopID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get inventory: %v", ErrStoreUnavailable, err)
	}
	return &inv, nil
}

func (t *sqlTx) CreateInventory(ctx context.Context, inv domain.Inventory) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO inventory (id, shop_id, product_id, current_stock, selling_price, cost_price, reorder_level, last_updated, is_active)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.ShopID, inv.ProductID, inv.CurrentStock, inv.SellingPrice,
		inv.CostPrice, inv.ReorderLevel, inv.LastUpdated, inv.IsActive)
	if err != nil {
		return fmt.Errorf("%w: create inventory: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (t *sqlTx) UpdateInventory(ctx context.Context, inv domain.Inventory) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE inventory SET current_stock = ?, selling_price = ?, cost_price = ?, reorder_level = ?, last_updated = ?, is_active = ?
         WHERE id = ?`,
		inv.CurrentStock, inv.SellingPrice, inv.CostPrice, inv.ReorderLevel,
		inv.LastUpdated, inv.IsActive, inv.ID)
	if err != nil {
		return fmt.Errorf("%w: update inventory: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (t *sqlTx) AppendTransaction(ctx context.Context, txn domain.Transaction) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO transactions (id, shop_id, product_id, transaction_type, quantity, price_per_unit, total_amount, notes, created_by, occurred_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.ShopID, txn.ProductID, txn.Type, txn.Quantity,
		txn.PricePerUnit, txn.TotalAmount, txn.Notes, txn.CreatedBy, txn.OccurredAt)
	if err != nil {
		return fmt.Errorf("%w: append transaction: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
