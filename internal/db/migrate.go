package db

import (
	"context"
	"database/sql"
	"fmt"
)

// The unique constraints back the write-time conflict detection; their names
// are mapped to fields by the repository.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		brand          TEXT NOT NULL,
		sku            TEXT NOT NULL,
		category       TEXT NOT NULL,
		price          NUMERIC(12, 2) NOT NULL,
		release_date   TIMESTAMPTZ NOT NULL,
		image_url      TEXT,
		stock_quantity INTEGER NOT NULL,
		is_available   BOOLEAN NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ,
		CONSTRAINT products_sku_key UNIQUE (sku),
		CONSTRAINT products_name_brand_key UNIQUE (name, brand)
	)`,
	`CREATE INDEX IF NOT EXISTS products_created_at_idx ON products (created_at)`,
}

// Migrate creates the catalog schema when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
