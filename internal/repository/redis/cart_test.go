package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltPeach/bahr-naturals/internal/domain"
)

func newTestRepo(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCartRepository(client, time.Hour, logger), mr
}

func TestCartRepository_GetMissingReturnsEmptyCart(t *testing.T) {
	repo, _ := newTestRepo(t)

	cart, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.True(t, cart.IsEmpty())
}

func TestCartRepository_SaveAndGetRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem(domain.CartItem{
		ProductID: "soap-lavender",
		Name:      "Lavender Soap",
		Price:     decimal.RequireFromString("9.00"),
		ImageURL:  "/images/lavender.jpg",
		Quantity:  2,
	})
	cart.AddItem(domain.CartItem{
		ProductID: "soap-charcoal",
		Name:      "Charcoal Soap",
		Price:     decimal.RequireFromString("11.50"),
		Quantity:  1,
	})

	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "soap-lavender", got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("9.00")))
	assert.Equal(t, "/images/lavender.jpg", got.Items[0].ImageURL)
}

func TestCartRepository_SaveRefreshesTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem(domain.CartItem{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("5.00"), Quantity: 1})
	require.NoError(t, repo.Save(ctx, cart))

	assert.Greater(t, mr.TTL("cart:user-1"), time.Duration(0))
}

func TestCartRepository_GetCorruptRecordReturnsEmptyCart(t *testing.T) {
	repo, mr := newTestRepo(t)

	mr.Set("cart:user-1", "{not json")

	cart, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartRepository_GetDropsInvalidEntries(t *testing.T) {
	repo, mr := newTestRepo(t)

	// only the first entry is valid: negative price, quantity 0,
	// missing name, and zero price all get dropped
	mr.Set("cart:user-1", `[
		{"id":"a","name":"Soap A","price":9.00,"quantity":1},
		{"id":"b","name":"Soap B","quantity":2,"price":-1},
		{"id":"c","name":"Soap C","price":4.50,"quantity":0},
		{"id":"d","price":4.50,"quantity":1},
		{"id":"e","name":"Soap E","price":0,"quantity":1}
	]`)

	cart, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "a", cart.Items[0].ProductID)
}

func TestCartRepository_LegacyNumericPrices(t *testing.T) {
	repo, mr := newTestRepo(t)

	// prices stored as JSON numbers by older writers
	mr.Set("cart:user-1", `[{"id":"a","name":"Soap A","price":18,"quantity":1}]`)

	cart, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(18)))
}

func TestCartRepository_Delete(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem(domain.CartItem{ProductID: "a", Name: "Soap A", Price: decimal.RequireFromString("5.00"), Quantity: 1})
	require.NoError(t, repo.Save(ctx, cart))

	require.NoError(t, repo.Delete(ctx, "user-1"))
	assert.False(t, mr.Exists("cart:user-1"))
}
