package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/AltPeach/bahr-naturals/internal/domain"
	"github.com/AltPeach/bahr-naturals/internal/event"
	"github.com/AltPeach/bahr-naturals/internal/notify"
	"github.com/AltPeach/bahr-naturals/internal/pricing"
	"github.com/AltPeach/bahr-naturals/internal/repository"
	apperrors "github.com/AltPeach/bahr-naturals/pkg/errors"
	"github.com/AltPeach/bahr-naturals/pkg/validator"
)

// AddItemInput is the validated payload for adding a product to a cart.
// A zero quantity defaults to 1.
type AddItemInput struct {
	ProductID string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
}

// SnapshotListener receives the new cart snapshot after every mutation.
type SnapshotListener func(ctx context.Context, snapshot *domain.CartSnapshot)

// CartService owns cart mutations and queries. Persistence failures on
// writes are soft: the mutation result is returned to the caller and the
// failure is logged and surfaced as a user notification.
type CartService struct {
	repo      repository.CartRepository
	calc      *pricing.Calculator
	publisher event.Publisher
	notifier  notify.Notifier
	logger    *slog.Logger
	currency  string

	mu        sync.RWMutex
	listeners []SnapshotListener
}

// NewCartService creates a cart service.
func NewCartService(
	repo repository.CartRepository,
	calc *pricing.Calculator,
	publisher event.Publisher,
	notifier notify.Notifier,
	logger *slog.Logger,
	currencyCode string,
) *CartService {
	return &CartService{
		repo:      repo,
		calc:      calc,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		currency:  currencyCode,
	}
}

// Subscribe registers a listener invoked with a fresh snapshot after
// every successful mutation.
func (s *CartService) Subscribe(l SnapshotListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *CartService) notifyListeners(ctx context.Context, snapshot *domain.CartSnapshot) {
	s.mu.RLock()
	listeners := make([]SnapshotListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, snapshot)
	}
}

// snapshot prices the cart's current contents.
func (s *CartService) snapshot(cart *domain.Cart) *domain.CartSnapshot {
	quote := s.calc.QuoteCart(cart)
	return &domain.CartSnapshot{
		Items:     cart.CopyItems(),
		Subtotal:  quote.Subtotal,
		Shipping:  quote.Shipping,
		Taxes:     quote.Taxes,
		Total:     quote.Total,
		ItemCount: cart.ItemCount(),
		Currency:  s.currency,
	}
}

// saveSoft persists the cart. A write failure does not abort the
// mutation that triggered it; the in-memory state remains authoritative
// for the current request and the shopper is told their cart may not
// stick around.
func (s *CartService) saveSoft(ctx context.Context, cart *domain.Cart) {
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
		s.notifier.Notify(ctx, cart.UserID, "your cart could not be saved and may not persist", notify.SeverityError)
	}
}

// GetSnapshot returns the priced view of the user's current cart.
func (s *CartService) GetSnapshot(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}
	return s.snapshot(cart), nil
}

// AddItem merges a product into the user's cart. Inputs missing an id or
// name, or with a non-positive price, are rejected without mutating
// state.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.CartSnapshot, error) {
	if err := validator.Validate(input); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if !input.Price.IsPositive() {
		return nil, apperrors.InvalidInput("price must be a positive amount")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}

	cart.AddItem(domain.CartItem{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		ImageURL:  input.ImageURL,
		Quantity:  quantity,
	})
	s.saveSoft(ctx, cart)

	s.publisher.CartUpdated(ctx, cart)
	s.notifier.Notify(ctx, userID, input.Name+" added to cart", notify.SeveritySuccess)

	snapshot := s.snapshot(cart)
	s.notifyListeners(ctx, snapshot)
	return snapshot, nil
}

// RemoveItem deletes a line from the cart. Removing a product that is
// not in the cart is reported as not found.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.CartSnapshot, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id must not be empty")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}

	if !cart.RemoveItem(productID) {
		return nil, apperrors.NotFound("cart item", productID)
	}
	s.saveSoft(ctx, cart)

	s.publisher.CartUpdated(ctx, cart)
	s.notifier.Notify(ctx, userID, "item removed from cart", notify.SeverityInfo)

	snapshot := s.snapshot(cart)
	s.notifyListeners(ctx, snapshot)
	return snapshot, nil
}

// UpdateQuantity sets the quantity on an existing line. A quantity of
// zero or less removes the line. Updating a product that is not in the
// cart changes nothing.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartSnapshot, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id must not be empty")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}

	cart.SetQuantity(productID, quantity)
	s.saveSoft(ctx, cart)

	s.publisher.CartUpdated(ctx, cart)

	snapshot := s.snapshot(cart)
	s.notifyListeners(ctx, snapshot)
	return snapshot, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}

	cart.Clear()
	s.saveSoft(ctx, cart)

	s.publisher.CartCleared(ctx, userID)
	s.notifier.Notify(ctx, userID, "cart cleared", notify.SeverityInfo)

	snapshot := s.snapshot(cart)
	s.notifyListeners(ctx, snapshot)
	return snapshot, nil
}
