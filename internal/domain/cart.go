package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a single line in a shopper's cart. One item per product;
// adding an existing product merges into the line's quantity.
type CartItem struct {
	ProductID string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
}

// LineTotal returns price multiplied by quantity, unrounded.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Valid reports whether the item can be carried in a cart. Used when
// loading persisted carts, where malformed lines are dropped rather
// than failing the whole load.
func (i CartItem) Valid() bool {
	return i.ProductID != "" && i.Name != "" && i.Quantity >= 1 && i.Price.IsPositive()
}

// Cart holds a shopper's current items. The zero value is an empty cart.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for the given user.
func NewCart(userID string) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// findItem returns the index of the item with the given product ID, or -1.
func (c *Cart) findItem(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges the item into the cart. If a line for the same product
// already exists its quantity is increased; otherwise a new line is
// appended.
func (c *Cart) AddItem(item CartItem) {
	if idx := c.findItem(item.ProductID); idx >= 0 {
		c.Items[idx].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = time.Now().UTC()
}

// RemoveItem removes the line for the given product. It reports whether
// a line was present.
func (c *Cart) RemoveItem(productID string) bool {
	idx := c.findItem(productID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return true
}

// SetQuantity replaces the quantity on an existing line. A quantity of
// zero or less removes the line. Setting quantity on a product that is
// not in the cart is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	idx := c.findItem(productID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = quantity
	}
	c.UpdatedAt = time.Now().UTC()
}

// Clear removes all items.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the unrounded sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CopyItems returns a deep copy of the cart's item slice so callers can
// hold a snapshot that later cart mutations cannot touch.
func (c *Cart) CopyItems() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}
