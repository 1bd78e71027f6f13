package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/shopdesk/internal/order/domain"
)

type mockRepo struct {
	created struct {
		customerID int64
		status     domain.Status
		items      []domain.Item
	}
	createCalls int
	deleteCalls int
	updateCalls int
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Summary, error) { return nil, nil }
func (m *mockRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	return domain.Order{ID: id}, nil
}
func (m *mockRepo) Create(ctx context.Context, customerID int64, status domain.Status, items []domain.Item) (int64, error) {
	m.createCalls++
	m.created.customerID = customerID
	m.created.status = status
	m.created.items = items
	return 42, nil
}
func (m *mockRepo) Update(ctx context.Context, id, customerID int64, status domain.Status, items []domain.Item) error {
	m.updateCalls++
	return nil
}
func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	return nil
}
func (m *mockRepo) Customers(ctx context.Context) ([]domain.Customer, error) {
	return []domain.Customer{{ID: 1, FirstName: "Jana", LastName: "Novak"}}, nil
}

func newService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, repo), repo
}

func TestCreateOrderRejectsUnknownStatus(t *testing.T) {
	svc, repo := newService()

	_, err := svc.CreateOrder(context.Background(), 1, domain.Status("refunded"), []domain.Item{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.New(1, 0)},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Zero(t, repo.createCalls, "the repository must not be reached")
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	svc, repo := newService()

	_, err := svc.CreateOrder(context.Background(), 1, domain.StatusPending, []domain.Item{
		{ProductID: 1, Quantity: 0, UnitPrice: decimal.New(1, 0)},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Zero(t, repo.createCalls)
}

func TestCreateOrderPassesThrough(t *testing.T) {
	svc, repo := newService()
	items := []domain.Item{{ProductID: 7, Quantity: 3, UnitPrice: decimal.RequireFromString("9.90")}}

	id, err := svc.CreateOrder(context.Background(), 5, domain.StatusPending, items)

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int64(5), repo.created.customerID)
	assert.Equal(t, domain.StatusPending, repo.created.status)
	assert.Equal(t, items, repo.created.items)
}

func TestUpdateOrderValidatesFirst(t *testing.T) {
	svc, repo := newService()

	err := svc.UpdateOrder(context.Background(), 1, 1, domain.Status("bogus"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Zero(t, repo.updateCalls)

	err = svc.UpdateOrder(context.Background(), 1, 1, domain.StatusCancelled, []domain.Item{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.New(5, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestDeleteOrderPassesThrough(t *testing.T) {
	svc, repo := newService()

	require.NoError(t, svc.DeleteOrder(context.Background(), 9))
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestCustomersPassesThrough(t *testing.T) {
	svc, _ := newService()

	customers, err := svc.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Jana", customers[0].FirstName)
}
