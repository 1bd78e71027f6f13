package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("order: not found")

	// ErrEmptyOrder rejects an order saved with no items, before any
	// statement runs.
	ErrEmptyOrder = errors.New("order: order has no items")

	ErrInvalidStatus   = errors.New("order: invalid status")
	ErrInvalidQuantity = errors.New("order: item quantity must be at least 1")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports membership in the status domain. Transition legality between
// statuses is a caller-side policy, not enforced here.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is one order line. UnitPrice is the price snapshot captured when the
// order was saved; later product price changes never touch it.
type Item struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customer_id"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	Items       []Item          `json:"items"`
}

// Summary is one row of the order listing, joined with the customer name.
type Summary struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	OrderDate    time.Time       `json:"order_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       Status          `json:"status"`
}

// Customer is the read-only reference set owned by an external collaborator.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Total sums unit price × quantity over the items, exactly.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ValidateItems checks line quantities. Emptiness is the repository's guard,
// checked at the transaction boundary.
func ValidateItems(items []Item) error {
	for _, it := range items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
