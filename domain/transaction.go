package domain

const (
	TransactionSale    = "sale"
	TransactionRestock = "restock"
)

// Transaction is an immutable record of one stock-affecting event. Rows are
// append-only; the transaction history is the audit trail from which an
// inventory row's current stock can be replayed.
type Transaction struct {
	ID           string  `db:"id" json:"id"`
	ShopID       string  `db:"shop_id" json:"shop_id"`
	ProductID    string  `db:"product_id" json:"product_id"`
	Type         string  `db:"transaction_type" json:"transaction_type"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	PricePerUnit float64 `db:"price_per_unit" json:"price_per_unit"`
	TotalAmount  float64 `db:"total_amount" json:"total_amount"`
	Notes        *string `db:"notes" json:"notes,omitempty"`
	CreatedBy    string  `db:"created_by" json:"created_by"`
	OccurredAt   string  `db:"occurred_at" json:"occurred_at"`
}
