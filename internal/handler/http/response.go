package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AltPeach/bahr-naturals/internal/domain"
	apperrors "github.com/AltPeach/bahr-naturals/pkg/errors"
	"github.com/AltPeach/bahr-naturals/pkg/validator"
)

// response is the JSON envelope for all API responses.
type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// itemResponse renders a cart line with its price as a fixed two-decimal
// string. Rounding happens here, at the presentation boundary only.
type itemResponse struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type snapshotResponse struct {
	Items     []itemResponse `json:"items"`
	Subtotal  string         `json:"subtotal"`
	Shipping  string         `json:"shipping"`
	Taxes     string         `json:"taxes"`
	Total     string         `json:"total"`
	ItemCount int            `json:"item_count"`
	Currency  string         `json:"currency"`
}

type checkoutResponse struct {
	CheckoutID string         `json:"checkout_id"`
	UserID     string         `json:"user_id"`
	Items      []itemResponse `json:"items"`
	Subtotal   string         `json:"subtotal"`
	Shipping   string         `json:"shipping"`
	Taxes      string         `json:"taxes"`
	Total      string         `json:"total"`
	Currency   string         `json:"currency"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

func renderItems(items []domain.CartItem) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = itemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     domain.RoundMoney(item.Price).StringFixed(2),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			LineTotal: domain.RoundMoney(item.LineTotal()).StringFixed(2),
		}
	}
	return out
}

func renderSnapshot(s *domain.CartSnapshot) snapshotResponse {
	return snapshotResponse{
		Items:     renderItems(s.Items),
		Subtotal:  domain.RoundMoney(s.Subtotal).StringFixed(2),
		Shipping:  domain.RoundMoney(s.Shipping).StringFixed(2),
		Taxes:     domain.RoundMoney(s.Taxes).StringFixed(2),
		Total:     domain.RoundMoney(s.Total).StringFixed(2),
		ItemCount: s.ItemCount,
		Currency:  s.Currency,
	}
}

func renderCheckout(o *domain.CheckoutOrder) checkoutResponse {
	return checkoutResponse{
		CheckoutID: o.CheckoutID,
		UserID:     o.UserID,
		Items:      renderItems(o.Items),
		Subtotal:   domain.RoundMoney(o.Subtotal).StringFixed(2),
		Shipping:   domain.RoundMoney(o.Shipping).StringFixed(2),
		Taxes:      domain.RoundMoney(o.Taxes).StringFixed(2),
		Total:      domain.RoundMoney(o.Total).StringFixed(2),
		Currency:   o.Currency,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			logger.ErrorContext(r.Context(), "internal error",
				slog.String("error", err.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	logger.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	writeJSON(w, http.StatusInternalServerError, response{
		Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
