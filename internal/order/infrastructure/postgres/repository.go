package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/shopdesk/shopdesk/internal/database"
	"github.com/shopdesk/shopdesk/internal/order/domain"
)

// Repository persists the order aggregate. It owns the two invariants that
// span tables: the whole item set commits with its order or not at all, and
// deleting an order restores each product's stock by the quantity that was
// held in the order.
type Repository struct {
	log  *slog.Logger
	conn *database.Conn
}

func NewRepository(log *slog.Logger, conn *database.Conn) *Repository {
	return &Repository{log: log, conn: conn}
}

func (r *Repository) List(ctx context.Context) ([]domain.Summary, error) {
	var out []domain.Summary
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT o.order_id, c.first_name || ' ' || c.last_name,
			        o.order_date, o.total_amount, o.status
			 FROM orders o
			 JOIN customers c ON o.customer_id = c.customer_id
			 ORDER BY o.order_date DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s domain.Summary
			if err := rows.Scan(&s.ID, &s.CustomerName, &s.OrderDate, &s.TotalAmount, &s.Status); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	return out, err
}

func (r *Repository) Get(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		err := conn.QueryRow(ctx,
			`SELECT order_id, customer_id, status, total_amount, order_date
			 FROM orders WHERE order_id = $1`, id).
			Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.OrderDate)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return err
		}

		rows, err := conn.Query(ctx,
			`SELECT product_id, quantity, unit_price
			 FROM order_items WHERE order_id = $1
			 ORDER BY product_id`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var it domain.Item
			if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
				return err
			}
			o.Items = append(o.Items, it)
		}
		return rows.Err()
	})
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) Customers(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT customer_id, first_name, last_name FROM customers ORDER BY customer_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c domain.Customer
			if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

// Create inserts the order row and every item inside one transaction. The
// stored total is recomputed from the item snapshots, never from current
// product prices. Stock is not decremented on creation; deletion is the only
// operation that touches stock.
func (r *Repository) Create(ctx context.Context, customerID int64, status domain.Status, items []domain.Item) (int64, error) {
	if len(items) == 0 {
		return 0, domain.ErrEmptyOrder
	}
	total := domain.Total(items)

	var id int64
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO orders (customer_id, status, total_amount)
			 VALUES ($1, $2, $3)
			 RETURNING order_id`,
			customerID, status, total).Scan(&id)
		if err != nil {
			return err
		}
		return insertItems(ctx, tx, id, items)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update is a full replace of the order row and its item set, atomically.
func (r *Repository) Update(ctx context.Context, id, customerID int64, status domain.Status, items []domain.Item) error {
	if len(items) == 0 {
		return domain.ErrEmptyOrder
	}
	total := domain.Total(items)

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`UPDATE orders SET customer_id = $1, status = $2, total_amount = $3
			 WHERE order_id = $4`,
			customerID, status, total, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return err
		}
		return insertItems(ctx, tx, id, items)
	})
}

// Delete removes the order and its items and gives each item's quantity back
// to the product's stock, all in one transaction. A failure at any step rolls
// everything back: no stock is compensated and no rows disappear.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, id)
		if err != nil {
			return err
		}
		type line struct {
			productID int64
			quantity  int
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.productID, &l.quantity); err != nil {
				rows.Close()
				return err
			}
			lines = append(lines, l)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, l := range lines {
			_, err := tx.Exec(ctx,
				`UPDATE products
				 SET stock_quantity = stock_quantity + $1, last_updated = now()
				 WHERE product_id = $2`,
				l.quantity, l.productID)
			if err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []domain.Item) error {
	for _, it := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return err
		}
	}
	return nil
}
