package domain

import "errors"

var (
	// ErrNotFound is returned when an update or delete target does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrCategoryInUse blocks deletion of a category still referenced by
	// products.
	ErrCategoryInUse = errors.New("catalog: category has products")

	// ErrProductInUse blocks deletion of a product still referenced by order
	// items.
	ErrProductInUse = errors.New("catalog: product referenced by order items")

	ErrInvalidCategory = errors.New("catalog: invalid category")
	ErrInvalidProduct  = errors.New("catalog: invalid product")
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (c Category) Validate() error {
	if c.Name == "" {
		return ErrInvalidCategory
	}
	return nil
}
