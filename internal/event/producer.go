package event

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/AltPeach/bahr-naturals/internal/domain"
	"github.com/AltPeach/bahr-naturals/pkg/kafka"
	"github.com/AltPeach/bahr-naturals/pkg/logger"
)

// Event types published by the cart service.
const (
	TypeCartUpdated       = "cart.updated"
	TypeCartCleared       = "cart.cleared"
	TypeCheckoutPrepared  = "checkout.prepared"
	TypeCheckoutHandedOff = "checkout.handed_off"
	TypeCheckoutFailed    = "checkout.failed"
)

const source = "cart-service"

// CartEventData is the payload for cart.updated and cart.cleared events.
type CartEventData struct {
	UserID    string            `json:"user_id"`
	ItemCount int               `json:"item_count"`
	Items     []domain.CartItem `json:"items,omitempty"`
}

// CheckoutEventData is the payload for checkout lifecycle events.
type CheckoutEventData struct {
	CheckoutID string          `json:"checkout_id"`
	UserID     string          `json:"user_id"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
}

// Publisher emits domain events. Implementations must not block the
// calling request path beyond their configured timeouts.
type Publisher interface {
	CartUpdated(ctx context.Context, cart *domain.Cart)
	CartCleared(ctx context.Context, userID string)
	CheckoutPrepared(ctx context.Context, order *domain.CheckoutOrder)
	CheckoutStatusChanged(ctx context.Context, order *domain.CheckoutOrder, eventType string)
}

// KafkaPublisher publishes domain events to Kafka topics. Publish
// failures are logged and swallowed; event delivery is best effort and
// never fails the originating operation.
type KafkaPublisher struct {
	producer      *kafka.Producer
	cartTopic     string
	checkoutTopic string
	log           *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to the given topics.
func NewKafkaPublisher(producer *kafka.Producer, cartTopic, checkoutTopic string, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer:      producer,
		cartTopic:     cartTopic,
		checkoutTopic: checkoutTopic,
		log:           log,
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	ev, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, ev); err != nil {
		p.log.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

func (p *KafkaPublisher) CartUpdated(ctx context.Context, cart *domain.Cart) {
	p.publish(ctx, p.cartTopic, TypeCartUpdated, cart.UserID, "cart", CartEventData{
		UserID:    cart.UserID,
		ItemCount: cart.ItemCount(),
		Items:     cart.Items,
	})
}

func (p *KafkaPublisher) CartCleared(ctx context.Context, userID string) {
	p.publish(ctx, p.cartTopic, TypeCartCleared, userID, "cart", CartEventData{
		UserID: userID,
	})
}

func (p *KafkaPublisher) CheckoutPrepared(ctx context.Context, order *domain.CheckoutOrder) {
	p.CheckoutStatusChanged(ctx, order, TypeCheckoutPrepared)
}

func (p *KafkaPublisher) CheckoutStatusChanged(ctx context.Context, order *domain.CheckoutOrder, eventType string) {
	p.publish(ctx, p.checkoutTopic, eventType, order.CheckoutID, "checkout", CheckoutEventData{
		CheckoutID: order.CheckoutID,
		UserID:     order.UserID,
		ItemCount:  order.ItemCount(),
		Total:      domain.RoundMoney(order.Total),
		Currency:   order.Currency,
		Status:     order.Status,
	})
}

// NoopPublisher discards all events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) CartUpdated(context.Context, *domain.Cart)                            {}
func (NoopPublisher) CartCleared(context.Context, string)                                  {}
func (NoopPublisher) CheckoutPrepared(context.Context, *domain.CheckoutOrder)              {}
func (NoopPublisher) CheckoutStatusChanged(context.Context, *domain.CheckoutOrder, string) {}
