package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/AltPeach/bahr-naturals/internal/domain"
	apperrors "github.com/AltPeach/bahr-naturals/pkg/errors"
)

// DB is the subset of pgxpool.Pool used by the repository. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// CheckoutRepository stores checkout order snapshots in PostgreSQL.
type CheckoutRepository struct {
	db DB
}

// NewCheckoutRepository creates a Postgres-backed checkout repository.
func NewCheckoutRepository(db DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Create inserts an order snapshot. Amounts are rounded to cents at this
// boundary; the snapshot is immutable apart from its status.
func (r *CheckoutRepository) Create(ctx context.Context, order *domain.CheckoutOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal checkout items: %w", err)
	}

	query := `
		INSERT INTO checkout_orders (
			checkout_id, user_id, items, subtotal, shipping, taxes, total,
			currency, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.Exec(ctx, query,
		order.CheckoutID,
		order.UserID,
		items,
		domain.RoundMoney(order.Subtotal),
		domain.RoundMoney(order.Shipping),
		domain.RoundMoney(order.Taxes),
		domain.RoundMoney(order.Total),
		order.Currency,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.Conflict(fmt.Sprintf("checkout %s already exists", order.CheckoutID))
		}
		return fmt.Errorf("insert checkout order: %w", err)
	}
	return nil
}

// GetByID loads an order snapshot by its checkout ID.
func (r *CheckoutRepository) GetByID(ctx context.Context, checkoutID string) (*domain.CheckoutOrder, error) {
	query := `
		SELECT checkout_id, user_id, items, subtotal, shipping, taxes, total,
		       currency, status, created_at, updated_at
		FROM checkout_orders
		WHERE checkout_id = $1`

	var (
		order                            domain.CheckoutOrder
		items                            []byte
		subtotal, shipping, taxes, total decimal.Decimal
	)

	err := r.db.QueryRow(ctx, query, checkoutID).Scan(
		&order.CheckoutID,
		&order.UserID,
		&items,
		&subtotal,
		&shipping,
		&taxes,
		&total,
		&order.Currency,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("checkout", checkoutID)
		}
		return nil, fmt.Errorf("get checkout order %s: %w", checkoutID, err)
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal checkout items: %w", err)
	}

	order.Subtotal = subtotal
	order.Shipping = shipping
	order.Taxes = taxes
	order.Total = total
	return &order, nil
}

// UpdateStatus records the outcome of the checkout handoff.
func (r *CheckoutRepository) UpdateStatus(ctx context.Context, checkoutID, status string) error {
	query := `
		UPDATE checkout_orders
		SET status = $2, updated_at = $3
		WHERE checkout_id = $1`

	tag, err := r.db.Exec(ctx, query, checkoutID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update checkout status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("checkout", checkoutID)
	}
	return nil
}

// Ping verifies database connectivity, for readiness checks.
func (r *CheckoutRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
