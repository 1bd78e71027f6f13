package application

import (
	"context"

	"github.com/shopdesk/shopdesk/internal/order/domain"
)

// OrderRepository is the order aggregate's persistence contract. All
// multi-statement mutations run inside one transaction scope; either every
// effect commits or none is observable.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Summary, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	Create(ctx context.Context, customerID int64, status domain.Status, items []domain.Item) (int64, error)
	Update(ctx context.Context, id, customerID int64, status domain.Status, items []domain.Item) error
	Delete(ctx context.Context, id int64) error
}

// CustomerReader exposes the read-only customer reference set.
type CustomerReader interface {
	Customers(ctx context.Context) ([]domain.Customer, error)
}
