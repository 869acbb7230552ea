package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AltPeach/bahr-naturals/internal/domain"
)

const cartKeyPrefix = "cart:"

// CartRepository stores carts in Redis, one key per user holding a JSON
// array of line items.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartRepository creates a Redis-backed cart repository. Carts expire
// after the given TTL; each save refreshes it.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// Get loads the user's cart. Missing keys yield an empty cart. A record
// that is not valid JSON also yields an empty cart, and individual line
// items that fail validation are dropped; either way the shopper keeps a
// working cart.
func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("get cart for user %s: %w", userID, err)
	}

	cart := domain.NewCart(userID)
	cart.Items = r.decodeItems(ctx, userID, data)
	return cart, nil
}

// decodeItems parses a persisted item array, dropping entries that are
// malformed or fail validation instead of failing the whole load.
func (r *CartRepository) decodeItems(ctx context.Context, userID string, data []byte) []domain.CartItem {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.WarnContext(ctx, "discarding corrupt cart record",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return []domain.CartItem{}
	}

	items := make([]domain.CartItem, 0, len(raw))
	dropped := 0
	for _, entry := range raw {
		var item domain.CartItem
		if err := json.Unmarshal(entry, &item); err != nil || !item.Valid() {
			dropped++
			continue
		}
		items = append(items, item)
	}

	if dropped > 0 {
		r.logger.WarnContext(ctx, "dropped invalid cart entries",
			slog.String("user_id", userID),
			slog.Int("dropped", dropped),
		)
	}
	return items
}

// Save writes the cart's items wholesale, replacing the previous record
// and refreshing the TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("marshal cart for user %s: %w", cart.UserID, err)
	}

	if err := r.client.Set(ctx, cartKey(cart.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart for user %s: %w", cart.UserID, err)
	}
	return nil
}

// Delete removes the user's cart record.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart for user %s: %w", userID, err)
	}
	return nil
}

// Ping verifies Redis connectivity, for readiness checks.
func (r *CartRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
