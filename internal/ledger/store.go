package ledger

import (
	"context"
	"time"

	"github.com/red445992/Code2Convert-HackForBusiness2/domain"
)

// Store abstracts the ledger's backing storage. The mutation path runs inside
// InTx; the read paths only need single-row consistency.
type Store interface {
	// InTx runs fn inside one transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// ListInventory returns the active inventory rows of a shop joined with
	// product attributes, ordered by product name.
	ListInventory(ctx context.Context, shopID string) ([]domain.InventoryView, error)

	// ShopStats aggregates inventory figures and the sales recorded within
	// [dayStart, dayEnd).
	ShopStats(ctx context.Context, shopID string, dayStart, dayEnd time.Time) (domain.ShopStats, error)
}

// Tx is the transactional surface the ledger mutates through.
type Tx interface {
	// GetInventory returns the pair's inventory row, or nil when absent.
	GetInventory(ctx context.Context, shopID, productID string) (*domain.Inventory, error)

	CreateInventory(ctx context.Context, inv domain.Inventory) error

	// UpdateInventory writes back all mutable columns of an existing row.
	UpdateInventory(ctx context.Context, inv domain.Inventory) error

	// AppendTransaction adds one immutable row to the audit trail.
	AppendTransaction(ctx context.Context, txn domain.Transaction) error
}
