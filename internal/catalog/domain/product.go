package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusAvailable    ProductStatus = "available"
	StatusDiscontinued ProductStatus = "discontinued"
	StatusOutOfStock   ProductStatus = "out_of_stock"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusDiscontinued, StatusOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID            int64           `json:"id"`
	CategoryID    int64           `json:"category_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Status        ProductStatus   `json:"status"`
	LastUpdated   time.Time       `json:"last_updated"`
}

func (p Product) Validate() error {
	if p.Name == "" || p.CategoryID <= 0 {
		return ErrInvalidProduct
	}
	if p.Price.IsNegative() || p.StockQuantity < 0 {
		return ErrInvalidProduct
	}
	if !p.Status.Valid() {
		return ErrInvalidProduct
	}
	return nil
}

// ProductListing is a product row joined with its category name.
type ProductListing struct {
	Product
	CategoryName string `json:"category_name"`
}
