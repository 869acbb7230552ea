package repository

import (
	"context"

	"github.com/AltPeach/bahr-naturals/internal/domain"
)

// CartRepository persists shoppers' carts.
type CartRepository interface {
	// Get loads a user's cart. A missing or unreadable record yields an
	// empty cart, never an error, so a corrupt store cannot lock a
	// shopper out of the site.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save writes the cart wholesale, replacing any previous record.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's cart record entirely.
	Delete(ctx context.Context, userID string) error
}

// CheckoutRepository persists immutable checkout order snapshots.
type CheckoutRepository interface {
	Create(ctx context.Context, order *domain.CheckoutOrder) error
	GetByID(ctx context.Context, checkoutID string) (*domain.CheckoutOrder, error)
	UpdateStatus(ctx context.Context, checkoutID, status string) error
}
