package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AltPeach/bahr-naturals/internal/domain"
	"github.com/AltPeach/bahr-naturals/internal/event"
	"github.com/AltPeach/bahr-naturals/internal/notify"
	"github.com/AltPeach/bahr-naturals/internal/pricing"
	"github.com/AltPeach/bahr-naturals/internal/repository"
	apperrors "github.com/AltPeach/bahr-naturals/pkg/errors"
)

// outcomeTimeout bounds the status write and notifications that follow
// a handoff attempt. It is independent of the handoff deadline.
const outcomeTimeout = 5 * time.Second

// HTTPDoer posts checkout snapshots downstream. Satisfied by the
// circuit breaker client.
type HTTPDoer interface {
	Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error)
}

// CheckoutService freezes cart contents into immutable order snapshots
// and hands them off to the external order flow.
type CheckoutService struct {
	carts     repository.CartRepository
	orders    repository.CheckoutRepository
	calc      *pricing.Calculator
	client    HTTPDoer
	publisher event.Publisher
	notifier  notify.Notifier
	logger    *slog.Logger

	handoffURL     string
	handoffTimeout time.Duration
	currency       string

	wg sync.WaitGroup
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.CheckoutRepository,
	calc *pricing.Calculator,
	client HTTPDoer,
	publisher event.Publisher,
	notifier notify.Notifier,
	logger *slog.Logger,
	handoffURL string,
	handoffTimeout time.Duration,
	currencyCode string,
) *CheckoutService {
	return &CheckoutService{
		carts:          carts,
		orders:         orders,
		calc:           calc,
		client:         client,
		publisher:      publisher,
		notifier:       notifier,
		logger:         logger,
		handoffURL:     handoffURL,
		handoffTimeout: handoffTimeout,
		currency:       currencyCode,
	}
}

// PrepareCheckout freezes the user's cart into an order snapshot,
// persists it, and hands it off to the external order flow in the
// background. The cart itself is left untouched; it is cleared only
// when the downstream flow confirms the order.
func (s *CheckoutService) PrepareCheckout(ctx context.Context, userID string) (*domain.CheckoutOrder, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}
	if cart.IsEmpty() {
		s.notifier.Notify(ctx, userID, "your cart is empty", notify.SeverityError)
		return nil, apperrors.EmptyCart()
	}

	quote := s.calc.QuoteCart(cart)
	if !quote.Total.IsPositive() {
		return nil, apperrors.InvalidTotal(fmt.Sprintf("order total %s is not positive", quote.Total.String()))
	}

	now := time.Now().UTC()
	order := &domain.CheckoutOrder{
		CheckoutID: uuid.New().String(),
		UserID:     userID,
		Items:      cart.CopyItems(),
		Subtotal:   quote.Subtotal,
		Shipping:   quote.Shipping,
		Taxes:      quote.Taxes,
		Total:      quote.Total,
		Currency:   s.currency,
		Status:     domain.CheckoutStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.Wrap(err, "persist checkout order")
	}

	s.publisher.CheckoutPrepared(ctx, order)

	s.wg.Add(1)
	go s.handOff(context.WithoutCancel(ctx), order)

	s.notifier.Notify(ctx, userID, "checkout started", notify.SeveritySuccess)
	return order, nil
}

// handOff posts the order snapshot downstream and records the outcome.
// It runs detached from the originating request so a slow downstream
// cannot stall the shopper.
func (s *CheckoutService) handOff(ctx context.Context, order *domain.CheckoutOrder) {
	defer s.wg.Done()

	postCtx, cancel := context.WithTimeout(ctx, s.handoffTimeout)
	defer cancel()

	err := s.postOrder(postCtx, order)

	// The outcome must be recorded even when the post itself timed out,
	// so the status write and notifications get their own deadline.
	outCtx, cancelOut := context.WithTimeout(context.WithoutCancel(ctx), outcomeTimeout)
	defer cancelOut()

	if err != nil {
		s.logger.ErrorContext(outCtx, "checkout handoff failed",
			slog.String("checkout_id", order.CheckoutID),
			slog.String("user_id", order.UserID),
			slog.String("error", err.Error()),
		)
		s.recordOutcome(outCtx, order, domain.CheckoutStatusFailed, event.TypeCheckoutFailed)
		s.notifier.Notify(outCtx, order.UserID, "we could not reach the order system, please try again", notify.SeverityError)
		return
	}

	s.recordOutcome(outCtx, order, domain.CheckoutStatusHandedOff, event.TypeCheckoutHandedOff)
	s.notifier.Notify(outCtx, order.UserID, "your order has been handed off for payment", notify.SeveritySuccess)
}

func (s *CheckoutService) postOrder(ctx context.Context, order *domain.CheckoutOrder) error {
	payload := struct {
		CheckoutID string            `json:"checkout_id"`
		UserID     string            `json:"user_id"`
		Items      []domain.CartItem `json:"items"`
		Subtotal   string            `json:"subtotal"`
		Shipping   string            `json:"shipping"`
		Taxes      string            `json:"taxes"`
		Total      string            `json:"total"`
		Currency   string            `json:"currency"`
	}{
		CheckoutID: order.CheckoutID,
		UserID:     order.UserID,
		Items:      order.Items,
		Subtotal:   domain.RoundMoney(order.Subtotal).StringFixed(2),
		Shipping:   domain.RoundMoney(order.Shipping).StringFixed(2),
		Taxes:      domain.RoundMoney(order.Taxes).StringFixed(2),
		Total:      domain.RoundMoney(order.Total).StringFixed(2),
		Currency:   order.Currency,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal handoff payload: %w", err)
	}

	resp, err := s.client.Post(ctx, s.handoffURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post handoff: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("handoff rejected with status %d", resp.StatusCode)
	}
	return nil
}

func (s *CheckoutService) recordOutcome(ctx context.Context, order *domain.CheckoutOrder, status, eventType string) {
	if err := s.orders.UpdateStatus(ctx, order.CheckoutID, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to record checkout outcome",
			slog.String("checkout_id", order.CheckoutID),
			slog.String("status", status),
			slog.String("error", err.Error()),
		)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.publisher.CheckoutStatusChanged(ctx, order, eventType)
}

// GetCheckout loads an order snapshot. Orders belonging to other users
// are reported as not found.
func (s *CheckoutService) GetCheckout(ctx context.Context, userID, checkoutID string) (*domain.CheckoutOrder, error) {
	order, err := s.orders.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("checkout", checkoutID)
	}
	return order, nil
}

// Wait blocks until all in-flight handoffs finish. Called on shutdown.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}
