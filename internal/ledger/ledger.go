package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/red445992/Code2Convert-HackForBusiness2/domain"
)

// Inventory rows created lazily by the ledger start at this threshold.
const defaultReorderLevel = 5

// Ledger owns all writes to inventory and transaction rows. Each sale or
// restock runs its read-validate-write-append sequence under a per-pair lock
// and inside one store transaction, so stock never goes negative and every
// stock mutation has a matching transaction row.
type Ledger struct {
	store Store
	loc   *time.Location
	now   func() time.Time
	locks *pairLocks
}

type Option func(*Ledger)

// WithLocation pins the timezone whose calendar date defines "today" for
// stats.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		locks: newPairLocks(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type SaleResult struct {
	TransactionID string  `json:"transaction_id"`
	NewStock      int64   `json:"new_stock"`
	TotalAmount   float64 `json:"total_amount"`
}

type RestockResult struct {
	TransactionID string  `json:"transaction_id"`
	NewStock      int64   `json:"new_stock"`
	TotalCost     float64 `json:"total_cost"`
}

// inventoryPatch names which inventory fields a mutation supplies. Nil fields
// leave the stored value untouched.
type inventoryPatch struct {
	stock        *int64
	sellingPrice *float64
	costPrice    *float64
}

func (p inventoryPatch) applyTo(inv *domain.Inventory, now time.Time) {
	if p.stock != nil {
		inv.CurrentStock = *p.stock
	}
	if p.sellingPrice != nil {
		inv.SellingPrice = *p.sellingPrice
	}
	if p.costPrice != nil {
		inv.CostPrice = *p.costPrice
	}
	inv.LastUpdated = formatTime(now)
}

// RecordSale decrements the pair's stock and appends a sale transaction. A
// positive priceOverride is used for the sale and persisted; otherwise the
// stored selling price applies. When no inventory row exists yet, a zero-stock
// row is created to anchor the price and the sale fails with the shortfall.
func (l *Ledger) RecordSale(ctx context.Context, shopID, productID string, quantity int64, priceOverride float64) (SaleResult, error) {
	if quantity <= 0 {
		return SaleResult{}, ErrInvalidQuantity
	}

	lock := l.locks.get(shopID, productID)
	lock.Lock()
	defer lock.Unlock()

	var (
		res       SaleResult
		shortfall *InsufficientStockError
	)
	err := l.store.InTx(ctx, func(tx Tx) error {
		inv, err := tx.GetInventory(ctx, shopID, productID)
		if err != nil {
			return err
		}
		now := l.now()

		if inv == nil {
			anchor := domain.Inventory{
				ID:           uuid.NewString(),
				ShopID:       shopID,
				ProductID:    productID,
				CurrentStock: 0,
				SellingPrice: max(priceOverride, 0),
				ReorderLevel: defaultReorderLevel,
				LastUpdated:  formatTime(now),
				IsActive:     true,
			}
			if err := tx.CreateInventory(ctx, anchor); err != nil {
				return err
			}
			// Commit the anchor row, but no transaction is appended.
			shortfall = &InsufficientStockError{Available: 0, Requested: quantity}
			return nil
		}

		if inv.CurrentStock < quantity {
			shortfall = &InsufficientStockError{Available: inv.CurrentStock, Requested: quantity}
			return nil
		}

		price := inv.SellingPrice
		patch := inventoryPatch{}
		if priceOverride > 0 {
			price = priceOverride
			patch.sellingPrice = &priceOverride
		}
		newStock := inv.CurrentStock - quantity
		patch.stock = &newStock
		patch.applyTo(inv, now)

		if err := tx.UpdateInventory(ctx, *inv); err != nil {
			return err
		}

		txn := domain.Transaction{
			ID:           uuid.NewString(),
			ShopID:       shopID,
			ProductID:    productID,
			Type:         domain.TransactionSale,
			Quantity:     quantity,
			PricePerUnit: price,
			TotalAmount:  float64(quantity) * price,
			CreatedBy:    "system",
			OccurredAt:   formatTime(now),
		}
		if err := tx.AppendTransaction(ctx, txn); err != nil {
			return err
		}

		res = SaleResult{TransactionID: txn.ID, NewStock: newStock, TotalAmount: txn.TotalAmount}
		return nil
	})
	if err != nil {
		return SaleResult{}, err
	}
	if shortfall != nil {
		return SaleResult{}, shortfall
	}
	return res, nil
}

// RecordRestock increments the pair's stock (creating the inventory row on
// first restock) and appends a restock transaction. Positive price overrides
// are persisted; zero or negative overrides leave stored prices unchanged.
func (l *Ledger) RecordRestock(ctx context.Context, shopID, productID string, quantity int64, costOverride, sellOverride float64) (RestockResult, error) {
	if quantity <= 0 {
		return RestockResult{}, ErrInvalidQuantity
	}

	lock := l.locks.get(shopID, productID)
	lock.Lock()
	defer lock.Unlock()

	var res RestockResult
	err := l.store.InTx(ctx, func(tx Tx) error {
		inv, err := tx.GetInventory(ctx, shopID, productID)
		if err != nil {
			return err
		}
		now := l.now()

		var (
			stock int64
			cost  float64
		)

		if inv == nil {
			stock = quantity
			fresh := domain.Inventory{
				ID:           uuid.NewString(),
				ShopID:       shopID,
				ProductID:    productID,
				CurrentStock: stock,
				SellingPrice: max(sellOverride, 0),
				CostPrice:    max(costOverride, 0),
				ReorderLevel: defaultReorderLevel,
				LastUpdated:  formatTime(now),
				IsActive:     true,
			}
			if err := tx.CreateInventory(ctx, fresh); err != nil {
				return err
			}
			cost = fresh.CostPrice
		} else {
			stock = inv.CurrentStock + quantity
			patch := inventoryPatch{stock: &stock}
			if costOverride > 0 {
				patch.costPrice = &costOverride
			}
			if sellOverride > 0 {
				patch.sellingPrice = &sellOverride
			}
			patch.applyTo(inv, now)
			if err := tx.UpdateInventory(ctx, *inv); err != nil {
				return err
			}
			cost = inv.CostPrice
		}

		txn := domain.Transaction{
			ID:           uuid.NewString(),
			ShopID:       shopID,
			ProductID:    productID,
			Type:         domain.TransactionRestock,
			Quantity:     quantity,
			PricePerUnit: cost,
			TotalAmount:  float64(quantity) * cost,
			CreatedBy:    "system",
			OccurredAt:   formatTime(now),
		}
		if err := tx.AppendTransaction(ctx, txn); err != nil {
			return err
		}

		res = RestockResult{TransactionID: txn.ID, NewStock: stock, TotalCost: txn.TotalAmount}
		return nil
	})
	if err != nil {
		return RestockResult{}, err
	}
	return res, nil
}

// GetInventory returns the shop's active inventory joined with product
// attributes, ordered by product name.
func (l *Ledger) GetInventory(ctx context.Context, shopID string) ([]domain.InventoryView, error) {
	return l.store.ListInventory(ctx, shopID)
}

// GetStats aggregates the shop's inventory and today's sales, where "today"
// is the current calendar date in the ledger's pinned location.
func (l *Ledger) GetStats(ctx context.Context, shopID string) (domain.ShopStats, error) {
	now := l.now().In(l.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, l.loc)
	return l.store.ShopStats(ctx, shopID, dayStart, dayStart.AddDate(0, 0, 1))
}
