package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/shopdesk/internal/database"
	"github.com/shopdesk/shopdesk/internal/order/domain"
	orderpg "github.com/shopdesk/shopdesk/internal/order/infrastructure/postgres"
	"github.com/shopdesk/shopdesk/test/integration"
)

type fixture struct {
	ctx        context.Context
	conn       *database.Conn
	repo       *orderpg.Repository
	customerID int64
	cableID    int64
	plugID     int64
}

// setup provisions a customer and two products: Cable at 9.90 with stock 50,
// Plug at 1.05 with stock 20.
func setup(t *testing.T) *fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	ctx := context.Background()

	env, err := integration.Setup(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(ctx) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn, err := database.Connect(ctx, log, database.Settings{
		DSN: env.DSN, Retries: 3, ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(ctx) })
	require.NoError(t, database.EnsureSchema(ctx, conn))

	f := &fixture{ctx: ctx, conn: conn, repo: orderpg.NewRepository(log, conn)}
	err = conn.WithConn(ctx, func(c *pgx.Conn) error {
		if err := c.QueryRow(ctx,
			`INSERT INTO customers (first_name, last_name) VALUES ('Jana', 'Novak')
			 RETURNING customer_id`).Scan(&f.customerID); err != nil {
			return err
		}
		var categoryID int64
		if err := c.QueryRow(ctx,
			`INSERT INTO categories (name, is_active) VALUES ('Electronics', TRUE)
			 RETURNING category_id`).Scan(&categoryID); err != nil {
			return err
		}
		if err := c.QueryRow(ctx,
			`INSERT INTO products (category_id, name, price, stock_quantity, status)
			 VALUES ($1, 'Cable', 9.90, 50, 'available') RETURNING product_id`,
			categoryID).Scan(&f.cableID); err != nil {
			return err
		}
		return c.QueryRow(ctx,
			`INSERT INTO products (category_id, name, price, stock_quantity, status)
			 VALUES ($1, 'Plug', 1.05, 20, 'available') RETURNING product_id`,
			categoryID).Scan(&f.plugID)
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) stock(t *testing.T, productID int64) int {
	t.Helper()
	var stock int
	err := f.conn.WithConn(f.ctx, func(c *pgx.Conn) error {
		return c.QueryRow(f.ctx,
			`SELECT stock_quantity FROM products WHERE product_id = $1`, productID).Scan(&stock)
	})
	require.NoError(t, err)
	return stock
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	err := f.conn.WithConn(f.ctx, func(c *pgx.Conn) error {
		return c.QueryRow(f.ctx, query, args...).Scan(&n)
	})
	require.NoError(t, err)
	return n
}

func TestCreateStoresExactTotalAndSnapshots(t *testing.T) {
	f := setup(t)

	items := []domain.Item{
		{ProductID: f.cableID, Quantity: 3, UnitPrice: decimal.RequireFromString("9.90")},
		{ProductID: f.plugID, Quantity: 2, UnitPrice: decimal.RequireFromString("1.05")},
	}
	id, err := f.repo.Create(f.ctx, f.customerID, domain.StatusPending, items)
	require.NoError(t, err)

	// A later product price change must not leak into the stored snapshot.
	err = f.conn.WithConn(f.ctx, func(c *pgx.Conn) error {
		_, err := c.Exec(f.ctx,
			`UPDATE products SET price = 99.99 WHERE product_id = $1`, f.cableID)
		return err
	})
	require.NoError(t, err)

	o, err := f.repo.Get(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("31.80")),
		"total must be 3*9.90 + 2*1.05 exactly, got %s", o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.90")))
	assert.True(t, o.Items[1].UnitPrice.Equal(decimal.RequireFromString("1.05")))
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	f := setup(t)

	_, err := f.repo.Create(f.ctx, f.customerID, domain.StatusPending, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	assert.Zero(t, f.count(t, `SELECT COUNT(*) FROM orders`))
}

func TestCreateRollsBackOnItemFailure(t *testing.T) {
	f := setup(t)

	// The second item references a product that does not exist; the foreign
	// key rejects it mid-transaction and the whole order must vanish.
	items := []domain.Item{
		{ProductID: f.cableID, Quantity: 1, UnitPrice: decimal.RequireFromString("9.90")},
		{ProductID: 424242, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
	}
	_, err := f.repo.Create(f.ctx, f.customerID, domain.StatusPending, items)
	require.Error(t, err)

	assert.Zero(t, f.count(t, `SELECT COUNT(*) FROM orders`), "no partial order row may remain")
	assert.Zero(t, f.count(t, `SELECT COUNT(*) FROM order_items`))
}

func TestUpdateReplacesItemSet(t *testing.T) {
	f := setup(t)

	id, err := f.repo.Create(f.ctx, f.customerID, domain.StatusPending, []domain.Item{
		{ProductID: f.cableID, Quantity: 3, UnitPrice: decimal.RequireFromString("9.90")},
	})
	require.NoError(t, err)

	err = f.repo.Update(f.ctx, id, f.customerID, domain.StatusProcessing, []domain.Item{
		{ProductID: f.plugID, Quantity: 4, UnitPrice: decimal.RequireFromString("1.05")},
	})
	require.NoError(t, err)

	o, err := f.repo.Get(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, f.plugID, o.Items[0].ProductID)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("4.20")))

	err = f.repo.Update(f.ctx, 9999, f.customerID, domain.StatusPending, []domain.Item{
		{ProductID: f.plugID, Quantity: 1, UnitPrice: decimal.RequireFromString("1.05")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.repo.Update(f.ctx, id, f.customerID, domain.StatusPending, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestDeleteCompensatesStock(t *testing.T) {
	f := setup(t)

	id, err := f.repo.Create(f.ctx, f.customerID, domain.StatusPending, []domain.Item{
		{ProductID: f.cableID, Quantity: 3, UnitPrice: decimal.RequireFromString("9.90")},
		{ProductID: f.plugID, Quantity: 5, UnitPrice: decimal.RequireFromString("1.05")},
	})
	require.NoError(t, err)

	// Creation records demand only; stock stays where it was.
	assert.Equal(t, 50, f.stock(t, f.cableID))
	assert.Equal(t, 20, f.stock(t, f.plugID))

	require.NoError(t, f.repo.Delete(f.ctx, id))

	assert.Equal(t, 53, f.stock(t, f.cableID))
	assert.Equal(t, 25, f.stock(t, f.plugID))
	assert.Zero(t, f.count(t, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, id))

	_, err = f.repo.Get(f.ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.repo.Delete(f.ctx, id), domain.ErrNotFound)
}

func TestListJoinsCustomerNewestFirst(t *testing.T) {
	f := setup(t)

	first, err := f.repo.Create(f.ctx, f.customerID, domain.StatusPending, []domain.Item{
		{ProductID: f.cableID, Quantity: 1, UnitPrice: decimal.RequireFromString("9.90")},
	})
	require.NoError(t, err)
	second, err := f.repo.Create(f.ctx, f.customerID, domain.StatusShipped, []domain.Item{
		{ProductID: f.plugID, Quantity: 1, UnitPrice: decimal.RequireFromString("1.05")},
	})
	require.NoError(t, err)

	// Spread the order dates so the expected ordering is unambiguous.
	err = f.conn.WithConn(f.ctx, func(c *pgx.Conn) error {
		_, err := c.Exec(f.ctx,
			`UPDATE orders SET order_date = order_date - INTERVAL '1 day' WHERE order_id = $1`, first)
		return err
	})
	require.NoError(t, err)

	list, err := f.repo.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.Equal(t, "Jana Novak", list[0].CustomerName)
}

func TestCustomersReferenceList(t *testing.T) {
	f := setup(t)

	customers, err := f.repo.Customers(f.ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Jana", customers[0].FirstName)
	assert.Equal(t, "Novak", customers[0].LastName)
}
