package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AltPeach/bahr-naturals/internal/domain"
)

func TestCalculator_SingleItemQuote(t *testing.T) {
	calc := NewDefaultCalculator()

	q := calc.QuoteItems([]domain.CartItem{
		{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("18.00"), Quantity: 1},
	})

	assert.Equal(t, "18.00", domain.RoundMoney(q.Subtotal).StringFixed(2))
	assert.Equal(t, "8.99", domain.RoundMoney(q.Shipping).StringFixed(2))
	assert.Equal(t, "2.34", domain.RoundMoney(q.Taxes).StringFixed(2))
	assert.Equal(t, "29.33", domain.RoundMoney(q.Total).StringFixed(2))
}

func TestCalculator_FreeShippingAtThreshold(t *testing.T) {
	calc := NewDefaultCalculator()

	q := calc.QuoteItems([]domain.CartItem{
		{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("25.00"), Quantity: 2},
	})

	assert.True(t, q.Shipping.IsZero())
	assert.Equal(t, "56.50", domain.RoundMoney(q.Total).StringFixed(2))
}

func TestCalculator_BelowThresholdChargesFlatRate(t *testing.T) {
	calc := NewDefaultCalculator()

	q := calc.QuoteItems([]domain.CartItem{
		{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("49.99"), Quantity: 1},
	})

	assert.Equal(t, "8.99", q.Shipping.StringFixed(2))
}

func TestCalculator_EmptyCart(t *testing.T) {
	calc := NewDefaultCalculator()

	q := calc.QuoteItems(nil)

	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Taxes.IsZero())
	assert.Equal(t, "8.99", q.Shipping.StringFixed(2))
}

func TestCalculator_NoInternalRounding(t *testing.T) {
	calc := NewDefaultCalculator()

	// 3 x 9.99 = 29.97, tax 3.8961 kept unrounded internally
	q := calc.QuoteItems([]domain.CartItem{
		{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("9.99"), Quantity: 3},
	})

	assert.True(t, q.Taxes.Equal(decimal.RequireFromString("3.8961")))
	assert.Equal(t, "3.90", domain.RoundMoney(q.Taxes).StringFixed(2))
}

func TestCalculator_QuoteCart(t *testing.T) {
	calc := NewDefaultCalculator()
	cart := domain.NewCart("user-1")
	cart.AddItem(domain.CartItem{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("18.00"), Quantity: 1})

	q := calc.QuoteCart(cart)

	assert.Equal(t, "29.33", domain.RoundMoney(q.Total).StringFixed(2))
}

func TestCalculator_CustomRates(t *testing.T) {
	calc := NewCalculator(
		decimal.RequireFromString("0.05"),
		decimal.RequireFromString("4.50"),
		decimal.RequireFromString("100.00"),
	)

	q := calc.QuoteItems([]domain.CartItem{
		{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("20.00"), Quantity: 1},
	})

	assert.Equal(t, "4.50", q.Shipping.StringFixed(2))
	assert.Equal(t, "1.00", q.Taxes.StringFixed(2))
	assert.Equal(t, "25.50", q.Total.StringFixed(2))
}
