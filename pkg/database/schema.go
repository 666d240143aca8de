package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the DDL applied at startup, in dependency order. Statements
// are idempotent so restarts are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tables (
		table_id INTEGER PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'available'
	)`,
	`CREATE TABLE IF NOT EXISTS foods (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		image_object TEXT,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		employee_id UUID NOT NULL,
		table_id INTEGER NOT NULL REFERENCES tables(table_id),
		customer_name TEXT,
		customer_phone TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_table_status ON orders (table_id, status)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		food_id UUID NOT NULL REFERENCES foods(id),
		quantity INTEGER NOT NULL,
		note TEXT,
		served BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS orders_completed (
		id UUID PRIMARY KEY,
		employee_id UUID NOT NULL,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		table_id INTEGER NOT NULL,
		total_price DOUBLE PRECISION NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS completed_order_mappings (
		completed_id UUID NOT NULL REFERENCES orders_completed(id) ON DELETE CASCADE,
		original_order_id UUID NOT NULL,
		PRIMARY KEY (completed_id, original_order_id)
	)`,
	`CREATE TABLE IF NOT EXISTS completed_order_items (
		id UUID PRIMARY KEY,
		completed_id UUID NOT NULL REFERENCES orders_completed(id) ON DELETE CASCADE,
		original_order_id UUID NOT NULL,
		food_id UUID NOT NULL,
		quantity INTEGER NOT NULL,
		note TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completed_order_items_completed ON completed_order_items (completed_id)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		completed_id UUID NOT NULL REFERENCES orders_completed(id),
		amount_paid DOUBLE PRECISION NOT NULL,
		method TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed',
		payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
