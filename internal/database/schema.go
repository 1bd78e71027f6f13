package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id SERIAL PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		category_id SERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id     SERIAL PRIMARY KEY,
		category_id    INT NOT NULL REFERENCES categories (category_id),
		name           TEXT NOT NULL,
		price          NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		stock_quantity INT NOT NULL CHECK (stock_quantity >= 0),
		status         TEXT NOT NULL CHECK (status IN ('available', 'discontinued', 'out_of_stock')),
		last_updated   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id     SERIAL PRIMARY KEY,
		customer_id  INT NOT NULL REFERENCES customers (customer_id),
		status       TEXT NOT NULL CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
		total_amount NUMERIC(12,2) NOT NULL,
		order_date   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id   INT NOT NULL REFERENCES orders (order_id),
		product_id INT NOT NULL REFERENCES products (product_id),
		quantity   INT NOT NULL CHECK (quantity >= 1),
		unit_price NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (order_id, product_id)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet. The repository
// carries no migration tooling; the DDL is idempotent on purpose.
func EnsureSchema(ctx context.Context, c *Conn) error {
	return c.WithConn(ctx, func(conn *pgx.Conn) error {
		for _, stmt := range schema {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
