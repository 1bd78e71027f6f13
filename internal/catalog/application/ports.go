package application

import (
	"context"

	"github.com/shopdesk/shopdesk/internal/catalog/domain"
)

// CategoryRepository is the category aggregate's persistence contract. Bulk
// import/export collaborators consume Create and List row by row; they get no
// batching from this layer.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (int64, error)
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.ProductListing, error)
	Create(ctx context.Context, p domain.Product) (int64, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error
}
