package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity rejects sale/restock quantities <= 0 before any row
	// is touched.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrStoreUnavailable wraps I/O failures from the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InsufficientStockError reports a sale that exceeds the available stock. The
// operation leaves stock unchanged.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}
