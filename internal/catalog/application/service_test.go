package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/shopdesk/internal/catalog/domain"
)

type mockCategories struct {
	createCalls int
	deleted     []int64
}

func (m *mockCategories) List(ctx context.Context) ([]domain.Category, error) { return nil, nil }
func (m *mockCategories) Create(ctx context.Context, c domain.Category) (int64, error) {
	m.createCalls++
	return 7, nil
}
func (m *mockCategories) Update(ctx context.Context, c domain.Category) error { return nil }
func (m *mockCategories) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockProducts struct {
	createCalls int
}

func (m *mockProducts) List(ctx context.Context) ([]domain.ProductListing, error) { return nil, nil }
func (m *mockProducts) Create(ctx context.Context, p domain.Product) (int64, error) {
	m.createCalls++
	return 11, nil
}
func (m *mockProducts) Update(ctx context.Context, p domain.Product) error { return nil }
func (m *mockProducts) Delete(ctx context.Context, id int64) error         { return nil }

func newService() (*Service, *mockCategories, *mockProducts) {
	categories := &mockCategories{}
	products := &mockProducts{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, categories, products), categories, products
}

func TestCreateCategoryValidates(t *testing.T) {
	svc, categories, _ := newService()

	_, err := svc.CreateCategory(context.Background(), domain.Category{})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.Zero(t, categories.createCalls)

	id, err := svc.CreateCategory(context.Background(), domain.Category{Name: "Electronics"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 1, categories.createCalls)
}

func TestCreateProductValidates(t *testing.T) {
	svc, _, products := newService()

	_, err := svc.CreateProduct(context.Background(), domain.Product{
		CategoryID: 1, Name: "Cable",
		Price:  decimal.RequireFromString("-1"),
		Status: domain.StatusAvailable,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	assert.Zero(t, products.createCalls)

	id, err := svc.CreateProduct(context.Background(), domain.Product{
		CategoryID: 1, Name: "Cable",
		Price:         decimal.RequireFromString("9.90"),
		StockQuantity: 50,
		Status:        domain.StatusAvailable,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestDeleteCategoryPassesThrough(t *testing.T) {
	svc, categories, _ := newService()

	require.NoError(t, svc.DeleteCategory(context.Background(), 3))
	assert.Equal(t, []int64{3}, categories.deleted)
}
