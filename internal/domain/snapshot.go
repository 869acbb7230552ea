package domain

import (
	"github.com/shopspring/decimal"
)

// CartSnapshot is a priced, read-only view of a cart. It is recomputed
// from the line items on every request and never stored.
type CartSnapshot struct {
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Taxes     decimal.Decimal `json:"taxes"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Currency  string          `json:"currency"`
}
