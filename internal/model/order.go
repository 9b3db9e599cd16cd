package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Delivered and cancelled are terminal; cancelled triggers a
// stock reversal for every item exactly once.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every recognized status, in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is one of the five recognized statuses.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is created once from the cart, then only its status mutates.
// Items and status history rows are never rewritten.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status          string          `gorm:"not null;default:'pending'"`
	PaypalOrderID   *string
	ShippingAddress *string
	ShippingCity    *string
	ShippingState   *string
	ShippingZip     *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User            *User                `gorm:"foreignKey:UserID"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID"`
	StatusHistories []OrderStatusHistory `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots product price at order-creation time. It is never
// recomputed from the live catalog price.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    int             `gorm:"not null;check:quantity >= 1"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// OrderStatusHistory is the immutable log of status transitions, including
// same-status no-op transitions.
type OrderStatusHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OldStatus string    `gorm:"not null"`
	NewStatus string    `gorm:"not null"`
	Notes     *string
	ChangedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time

	Changer *User `gorm:"foreignKey:ChangedBy"`
}

// TableName overrides GORM's pluralization (order_status_histories).
func (OrderStatusHistory) TableName() string { return "order_status_histories" }
