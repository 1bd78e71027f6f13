package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopdesk/shopdesk/internal/order/domain"
)

// Service validates order input before handing it to the repository. The
// status check is a value-domain check only; transition policy stays with the
// caller.
type Service struct {
	log       *slog.Logger
	orders    OrderRepository
	customers CustomerReader
}

func NewService(log *slog.Logger, orders OrderRepository, customers CustomerReader) *Service {
	return &Service{log: log, orders: orders, customers: customers}
}

func (s *Service) Orders(ctx context.Context) ([]domain.Summary, error) {
	return s.orders.List(ctx)
}

func (s *Service) Order(ctx context.Context, id int64) (domain.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *Service) Customers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.Customers(ctx)
}

func (s *Service) CreateOrder(ctx context.Context, customerID int64, status domain.Status, items []domain.Item) (int64, error) {
	if err := validate(status, items); err != nil {
		return 0, err
	}
	id, err := s.orders.Create(ctx, customerID, status, items)
	if err != nil {
		return 0, err
	}
	s.log.Info("order created", "order_id", id, "customer_id", customerID, "items", len(items))
	return id, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id, customerID int64, status domain.Status, items []domain.Item) error {
	if err := validate(status, items); err != nil {
		return err
	}
	if err := s.orders.Update(ctx, id, customerID, status, items); err != nil {
		return err
	}
	s.log.Info("order updated", "order_id", id, "items", len(items))
	return nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", "order_id", id)
	return nil
}

func validate(status domain.Status, items []domain.Item) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return domain.ValidateItems(items)
}
