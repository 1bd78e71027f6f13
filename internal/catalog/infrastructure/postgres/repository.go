package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/shopdesk/shopdesk/internal/catalog/domain"
	"github.com/shopdesk/shopdesk/internal/database"
)

// CategoryRepository persists categories through the shared session. Category
// mutations are single statements and run in autocommit; the delete guard is
// checked before any mutating statement, so a rejection needs no rollback.
type CategoryRepository struct {
	log  *slog.Logger
	conn *database.Conn
}

func NewCategoryRepository(log *slog.Logger, conn *database.Conn) *CategoryRepository {
	return &CategoryRepository{log: log, conn: conn}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT category_id, name, COALESCE(description, ''), is_active
			 FROM categories
			 ORDER BY category_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c domain.Category
			if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

func (r *CategoryRepository) Create(ctx context.Context, c domain.Category) (int64, error) {
	var id int64
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`INSERT INTO categories (name, description, is_active)
			 VALUES ($1, $2, $3)
			 RETURNING category_id`,
			c.Name, c.Description, c.IsActive).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) error {
	return r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE categories SET name = $1, description = $2, is_active = $3
			 WHERE category_id = $4`,
			c.Name, c.Description, c.IsActive, c.ID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("category %d: %w", c.ID, domain.ErrNotFound)
		}
		return nil
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		var refs int
		err := conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&refs)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("category %d referenced by %d products: %w",
				id, refs, domain.ErrCategoryInUse)
		}

		ct, err := conn.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// ProductRepository persists products. Every mutation runs inside an explicit
// transaction scope even while single-statement, so invariant checks can be
// added without changing the calling contract.
type ProductRepository struct {
	log  *slog.Logger
	conn *database.Conn
}

func NewProductRepository(log *slog.Logger, conn *database.Conn) *ProductRepository {
	return &ProductRepository{log: log, conn: conn}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.ProductListing, error) {
	var out []domain.ProductListing
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT p.product_id, p.category_id, c.name, p.name,
			        p.price, p.stock_quantity, p.status, p.last_updated
			 FROM products p
			 JOIN categories c ON p.category_id = c.category_id
			 ORDER BY p.product_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p domain.ProductListing
			if err := rows.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name,
				&p.Price, &p.StockQuantity, &p.Status, &p.LastUpdated); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	return out, err
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO products (category_id, name, price, stock_quantity, status)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING product_id`,
			p.CategoryID, p.Name, p.Price, p.StockQuantity, p.Status).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`UPDATE products
			 SET category_id = $1, name = $2, price = $3, stock_quantity = $4,
			     status = $5, last_updated = now()
			 WHERE product_id = $6`,
			p.CategoryID, p.Name, p.Price, p.StockQuantity, p.Status, p.ID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
		}
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	// Guard first, outside the transaction: a rejected delete must not mutate
	// anything and needs no rollback.
	var refs int
	err := r.conn.WithConn(ctx, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM order_items WHERE product_id = $1`, id).Scan(&refs)
	})
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("product %d referenced by %d order items: %w",
			id, refs, domain.ErrProductInUse)
	}

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}
