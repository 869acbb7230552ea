package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lavenderSoap() CartItem {
	return CartItem{
		ProductID: "soap-lavender",
		Name:      "Lavender Soap",
		Price:     decimal.RequireFromString("9.00"),
		ImageURL:  "/images/lavender.jpg",
		Quantity:  1,
	}
}

func TestCart_AddItem_MergesByProductID(t *testing.T) {
	cart := NewCart("user-1")

	cart.AddItem(lavenderSoap())
	item := lavenderSoap()
	item.Quantity = 2
	cart.AddItem(item)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_AddItem_DistinctProducts(t *testing.T) {
	cart := NewCart("user-1")

	cart.AddItem(lavenderSoap())
	cart.AddItem(CartItem{ProductID: "soap-charcoal", Name: "Charcoal Soap", Price: decimal.RequireFromString("11.50"), Quantity: 1})

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.ItemCount())
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(lavenderSoap())

	assert.True(t, cart.RemoveItem("soap-lavender"))
	assert.True(t, cart.IsEmpty())

	assert.False(t, cart.RemoveItem("soap-lavender"))
}

func TestCart_SetQuantity(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(lavenderSoap())

	cart.SetQuantity("soap-lavender", 5)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// zero or negative removes the line
	cart.SetQuantity("soap-lavender", 0)
	assert.True(t, cart.IsEmpty())

	cart.AddItem(lavenderSoap())
	cart.SetQuantity("soap-lavender", -3)
	assert.True(t, cart.IsEmpty())
}

func TestCart_SetQuantity_MissingProductIsNoOp(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(lavenderSoap())

	cart.SetQuantity("soap-rose", 4)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Subtotal(t *testing.T) {
	cart := NewCart("user-1")
	item := lavenderSoap()
	item.Quantity = 2
	cart.AddItem(item)
	cart.AddItem(CartItem{ProductID: "soap-charcoal", Name: "Charcoal Soap", Price: decimal.RequireFromString("11.50"), Quantity: 1})

	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("29.50")))
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(lavenderSoap())

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items)
}

func TestCart_CopyItems_IsDetached(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(lavenderSoap())

	snapshot := cart.CopyItems()
	cart.SetQuantity("soap-lavender", 10)
	cart.AddItem(CartItem{ProductID: "soap-rose", Name: "Rose Soap", Price: decimal.RequireFromString("8.25"), Quantity: 1})

	require.Len(t, snapshot, 1)
	assert.Equal(t, 1, snapshot[0].Quantity)
}

func TestCartItem_Valid(t *testing.T) {
	assert.True(t, lavenderSoap().Valid())

	missingID := lavenderSoap()
	missingID.ProductID = ""
	assert.False(t, missingID.Valid())

	missingName := lavenderSoap()
	missingName.Name = ""
	assert.False(t, missingName.Valid())

	zeroQty := lavenderSoap()
	zeroQty.Quantity = 0
	assert.False(t, zeroQty.Valid())

	negativePrice := lavenderSoap()
	negativePrice.Price = decimal.RequireFromString("-1.00")
	assert.False(t, negativePrice.Valid())

	zeroPrice := lavenderSoap()
	zeroPrice.Price = decimal.Zero
	assert.False(t, zeroPrice.Valid())
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "2.34", RoundMoney(decimal.RequireFromString("2.3399999")).StringFixed(2))
	assert.Equal(t, "2.35", RoundMoney(decimal.RequireFromString("2.345")).StringFixed(2))
}

func TestFormatMoney(t *testing.T) {
	got := FormatMoney(decimal.RequireFromString("29.334"), "CAD")
	assert.Equal(t, "CAD 29.33", got)

	// unknown code falls back to the bare amount
	assert.Equal(t, "5.00", FormatMoney(decimal.RequireFromString("5"), "???"))
}
