package application

import (
	"context"
	"log/slog"

	"github.com/shopdesk/shopdesk/internal/catalog/domain"
)

// Service fronts the catalog repositories with input validation. Referential
// guards and transaction scoping live in the repositories themselves.
type Service struct {
	log        *slog.Logger
	categories CategoryRepository
	products   ProductRepository
}

func NewService(log *slog.Logger, categories CategoryRepository, products ProductRepository) *Service {
	return &Service{log: log, categories: categories, products: products}
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, c domain.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := s.categories.Create(ctx, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("category created", "category_id", id, "name", c.Name)
	return id, nil
}

func (s *Service) UpdateCategory(ctx context.Context, c domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return err
	}
	s.log.Info("category updated", "category_id", c.ID)
	return nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("category deleted", "category_id", id)
	return nil
}

func (s *Service) Products(ctx context.Context) ([]domain.ProductListing, error) {
	return s.products.List(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	id, err := s.products.Create(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("product created", "product_id", id, "name", p.Name)
	return id, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.log.Info("product updated", "product_id", p.ID)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "product_id", id)
	return nil
}
