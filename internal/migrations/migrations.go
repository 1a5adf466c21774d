package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the shop tracker backend.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS shops (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            owner_name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            phone TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            district TEXT NOT NULL DEFAULT '',
            registered_at TEXT NOT NULL,
            last_login_at TEXT,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            subscription_tier TEXT NOT NULL DEFAULT 'free'
        );`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            brand TEXT NOT NULL DEFAULT '',
            unit TEXT NOT NULL DEFAULT 'piece',
            barcode TEXT,
            default_price REAL NOT NULL DEFAULT 0,
            image_url TEXT,
            is_common BOOLEAN NOT NULL DEFAULT 0,
            created_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS inventory (
            id TEXT PRIMARY KEY,
            shop_id TEXT NOT NULL REFERENCES shops(id),
            product_id TEXT NOT NULL REFERENCES products(id),
            current_stock INTEGER NOT NULL DEFAULT 0,
            selling_price REAL NOT NULL DEFAULT 0,
            cost_price REAL NOT NULL DEFAULT 0,
            reorder_level INTEGER NOT NULL DEFAULT 5,
            last_updated TEXT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            UNIQUE(shop_id, product_id)
        );`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id TEXT PRIMARY KEY,
            shop_id TEXT NOT NULL REFERENCES shops(id),
            product_id TEXT NOT NULL REFERENCES products(id),
            transaction_type TEXT NOT NULL CHECK (transaction_type IN ('sale', 'restock')),
            quantity INTEGER NOT NULL,
            price_per_unit REAL NOT NULL DEFAULT 0,
            total_amount REAL NOT NULL DEFAULT 0,
            notes TEXT,
            created_by TEXT NOT NULL DEFAULT 'system',
            occurred_at TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_shop_date ON transactions(shop_id, occurred_at);`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_shop ON inventory(shop_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
