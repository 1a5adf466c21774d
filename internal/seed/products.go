package seed

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type commonProduct struct {
	name     string
	category string
	brand    string
	unit     string
	price    float64
}

var commonProducts = []commonProduct{
	{"Wai Wai Chicken", "Noodles", "Wai Wai", "packet", 20.0},
	{"Coca Cola 250ml", "Beverages", "Coca Cola", "bottle", 25.0},
	{"Khukuri Rum 750ml", "Alcohol", "Khukuri", "bottle", 800.0},
	{"Everest Masala Tea", "Tea", "Everest", "packet", 15.0},
	{"Dairy Milk Chocolate", "Chocolates", "Cadbury", "piece", 45.0},
	{"Kurkure Masala Munch", "Snacks", "Kurkure", "packet", 10.0},
	{"Goldstar Shoes Polish", "Personal Care", "Goldstar", "piece", 35.0},
	{"Ariel Washing Powder 1kg", "Household", "Ariel", "packet", 180.0},
	{"Pepsi 250ml", "Beverages", "Pepsi", "bottle", 23.0},
	{"Maggi Noodles", "Noodles", "Maggi", "packet", 25.0},
	{"Real Juice 200ml", "Beverages", "Real", "tetrapack", 30.0},
	{"Lays Classic", "Snacks", "Lays", "packet", 20.0},
}

// CommonProducts populates the shared product catalog on first boot. Runs are
// idempotent: once any common product exists the seed is skipped.
func CommonProducts(db *sqlx.DB) (int, error) {
	var existing int
	if err := db.Get(&existing, `SELECT COUNT(*) FROM products WHERE is_common = 1`); err != nil {
		return 0, fmt.Errorf("check common products: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin product seed: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range commonProducts {
		_, err := tx.Exec(
			`INSERT INTO products (id, name, category, brand, unit, default_price, is_common, created_at)
             VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
			uuid.NewString(), p.name, p.category, p.brand, p.unit, p.price, now)
		if err != nil {
			return 0, fmt.Errorf("insert product %s: %w", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit product seed: %w", err)
	}
	return len(commonProducts), nil
}
