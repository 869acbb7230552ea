package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkout status values.
const (
	CheckoutStatusPending   = "pending"
	CheckoutStatusHandedOff = "handed_off"
	CheckoutStatusFailed    = "failed"
)

// CheckoutOrder is the immutable order snapshot produced when a shopper
// proceeds to checkout. Items and amounts are frozen at creation time;
// later cart edits do not affect it.
type CheckoutOrder struct {
	CheckoutID string          `json:"checkout_id"`
	UserID     string          `json:"user_id"`
	Items      []CartItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Taxes      decimal.Decimal `json:"taxes"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ItemCount returns the total number of units in the order.
func (o *CheckoutOrder) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
