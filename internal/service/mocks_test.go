package service

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/AltPeach/bahr-naturals/internal/domain"
	"github.com/AltPeach/bahr-naturals/internal/notify"
)

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if cart := args.Get(0); cart != nil {
		return cart.(*domain.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockCheckoutRepo struct {
	mock.Mock
}

func (m *mockCheckoutRepo) Create(ctx context.Context, order *domain.CheckoutOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockCheckoutRepo) GetByID(ctx context.Context, checkoutID string) (*domain.CheckoutOrder, error) {
	args := m.Called(ctx, checkoutID)
	if order := args.Get(0); order != nil {
		return order.(*domain.CheckoutOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCheckoutRepo) UpdateStatus(ctx context.Context, checkoutID, status string) error {
	args := m.Called(ctx, checkoutID, status)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) CartUpdated(ctx context.Context, cart *domain.Cart) {
	m.Called(ctx, cart)
}

func (m *mockPublisher) CartCleared(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *mockPublisher) CheckoutPrepared(ctx context.Context, order *domain.CheckoutOrder) {
	m.Called(ctx, order)
}

func (m *mockPublisher) CheckoutStatusChanged(ctx context.Context, order *domain.CheckoutOrder, eventType string) {
	m.Called(ctx, order, eventType)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID, message string, severity notify.Severity) {
	m.Called(ctx, userID, message, severity)
}

type mockDoer struct {
	mock.Mock
}

func (m *mockDoer) Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(ctx, url, contentType, body)
	if resp := args.Get(0); resp != nil {
		return resp.(*http.Response), args.Error(1)
	}
	return nil, args.Error(1)
}
