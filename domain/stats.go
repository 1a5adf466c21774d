package domain

// ShopStats summarizes a shop's inventory and the current day's sales.
type ShopStats struct {
	TotalProducts    int64   `db:"total_products" json:"total_products"`
	LowStockCount    int64   `db:"low_stock_count" json:"low_stock_count"`
	TodaySalesAmount float64 `db:"today_sales_amount" json:"today_sales_amount"`
	TodaySalesCount  int64   `db:"today_sales_count" json:"today_sales_count"`
	InventoryValue   float64 `db:"inventory_value" json:"inventory_value"`
}
