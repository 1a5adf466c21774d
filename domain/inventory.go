package domain

// Inventory is the mutable per-(shop, product) stock record. At most one row
// exists per pair; it is only ever written through the ledger's sale and
// restock operations.
type Inventory struct {
	ID           string  `db:"id" json:"id"`
	ShopID       string  `db:"shop_id" json:"shop_id"`
	ProductID    string  `db:"product_id" json:"product_id"`
	CurrentStock int64   `db:"current_stock" json:"current_stock"`
	SellingPrice float64 `db:"selling_price" json:"selling_price"`
	CostPrice    float64 `db:"cost_price" json:"cost_price"`
	ReorderLevel int64   `db:"reorder_level" json:"reorder_level"`
	LastUpdated  string  `db:"last_updated" json:"last_updated"`
	IsActive     bool    `db:"is_active" json:"is_active"`
}

// InventoryView is an inventory row joined with its product's descriptive
// attributes, as returned to shop dashboards.
type InventoryView struct {
	ID           string  `db:"id" json:"id"`
	ProductID    string  `db:"product_id" json:"product_id"`
	ProductName  string  `db:"product_name" json:"product_name"`
	Category     string  `db:"category" json:"category"`
	Brand        string  `db:"brand" json:"brand"`
	Unit         string  `db:"unit" json:"unit"`
	ImageURL     *string `db:"image_url" json:"image_url,omitempty"`
	CurrentStock int64   `db:"current_stock" json:"current_stock"`
	SellingPrice float64 `db:"selling_price" json:"selling_price"`
	CostPrice    float64 `db:"cost_price" json:"cost_price"`
	ReorderLevel int64   `db:"reorder_level" json:"reorder_level"`
	LowStock     bool    `db:"low_stock" json:"low_stock"`
	LastUpdated  string  `db:"last_updated" json:"last_updated"`
}
