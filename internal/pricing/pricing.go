package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/AltPeach/bahr-naturals/internal/domain"
)

// Default pricing rules for the storefront. Overridable via configuration.
var (
	DefaultTaxRate               = decimal.RequireFromString("0.13")
	DefaultShippingFlatRate      = decimal.RequireFromString("8.99")
	DefaultFreeShippingThreshold = decimal.RequireFromString("50.00")
)

// Quote is a fully priced view of a set of cart items. Amounts are kept
// unrounded; rounding happens at presentation and persistence boundaries.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Taxes    decimal.Decimal
	Total    decimal.Decimal
}

// Calculator derives quotes from cart contents. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	taxRate               decimal.Decimal
	shippingFlatRate      decimal.Decimal
	freeShippingThreshold decimal.Decimal
}

// NewCalculator creates a calculator with the given rules.
func NewCalculator(taxRate, shippingFlatRate, freeShippingThreshold decimal.Decimal) *Calculator {
	return &Calculator{
		taxRate:               taxRate,
		shippingFlatRate:      shippingFlatRate,
		freeShippingThreshold: freeShippingThreshold,
	}
}

// NewDefaultCalculator creates a calculator with the storefront defaults:
// 13% tax, 8.99 flat shipping, free shipping at 50.00.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultTaxRate, DefaultShippingFlatRate, DefaultFreeShippingThreshold)
}

// Shipping returns the shipping charge for a given subtotal. Orders at or
// above the free shipping threshold ship free.
func (c *Calculator) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(c.freeShippingThreshold) {
		return decimal.Zero
	}
	return c.shippingFlatRate
}

// Taxes returns the tax charge for a given subtotal. Tax applies to the
// subtotal only, never to shipping.
func (c *Calculator) Taxes(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.taxRate)
}

// QuoteItems prices a set of cart items.
func (c *Calculator) QuoteItems(items []domain.CartItem) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return c.quote(subtotal)
}

// QuoteCart prices the current contents of a cart.
func (c *Calculator) QuoteCart(cart *domain.Cart) Quote {
	return c.quote(cart.Subtotal())
}

func (c *Calculator) quote(subtotal decimal.Decimal) Quote {
	shipping := c.Shipping(subtotal)
	taxes := c.Taxes(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Taxes:    taxes,
		Total:    subtotal.Add(shipping).Add(taxes),
	}
}
