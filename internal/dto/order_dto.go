package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the checkout payload sent after PayPal capture
// succeeds on the client. Totals are recomputed server-side from the cart;
// nothing money-related is trusted from the client.
type CreateOrderRequest struct {
	PaypalOrderID string `json:"order_id" validate:"required,max=100"`
	// Status mirrors the payment provider outcome; only the two pre-shipment
	// states are accepted here, defaulting to pending.
	Status          string  `json:"status" validate:"omitempty,oneof=pending processing"`
	ShippingAddress *string `json:"shipping_address" validate:"omitempty,max=500"`
	ShippingCity    *string `json:"shipping_city" validate:"omitempty,max=100"`
	ShippingState   *string `json:"shipping_state" validate:"omitempty,max=100"`
	ShippingZip     *string `json:"shipping_zip" validate:"omitempty,max=20"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
	Notes  *string `json:"notes" validate:"omitempty,max=500"`
}

// OrderListFilter carries admin list query params.
type OrderListFilter struct {
	Status  *string
	UserID  *uuid.UUID
	Page    int
	PerPage int
}

type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          string              `json:"status"`
	PaypalOrderID   *string             `json:"paypal_order_id,omitempty"`
	ShippingAddress *string             `json:"shipping_address,omitempty"`
	ShippingCity    *string             `json:"shipping_city,omitempty"`
	ShippingState   *string             `json:"shipping_state,omitempty"`
	ShippingZip     *string             `json:"shipping_zip,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

type OrderStatusHistoryEntry struct {
	ID        uuid.UUID  `json:"id"`
	OldStatus string     `json:"old_status"`
	NewStatus string     `json:"new_status"`
	Notes     *string    `json:"notes,omitempty"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type PaginatedOrders struct {
	Items      []OrderResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}
