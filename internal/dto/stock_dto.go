package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdjustStockRequest struct {
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Type     string  `json:"type" validate:"required,oneof=entrada salida ajuste"`
	Notes    *string `json:"notes" validate:"omitempty,max=500"`
}

type SetStockAlertRequest struct {
	MinimumStock int   `json:"minimum_stock" validate:"required,gte=0"`
	IsActive     *bool `json:"is_active"`
}

type StockHistoryEntry struct {
	ID              uuid.UUID  `json:"id"`
	ProductID       uuid.UUID  `json:"product_id"`
	ProductName     string     `json:"product_name,omitempty"`
	PreviousStock   int        `json:"previous_stock"`
	NewStock        int        `json:"new_stock"`
	QuantityChanged int        `json:"quantity_changed"`
	Type            string     `json:"type"`
	ReferenceType   string     `json:"reference_type"`
	ReferenceID     *uuid.UUID `json:"reference_id,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type LowStockProduct struct {
	ProductID    uuid.UUID  `json:"product_id"`
	Name         string     `json:"name"`
	Stock        int        `json:"stock"`
	MinimumStock int        `json:"minimum_stock"`
	IsNotified   bool       `json:"is_notified"`
	LastNotified *time.Time `json:"last_notification,omitempty"`
}

// LowStockReport is the low-stock dashboard payload: the products at or
// below their alert threshold plus catalog-wide aggregates.
type LowStockReport struct {
	Products      []LowStockProduct `json:"products"`
	TotalProducts int64             `json:"total_products"`
	StockRotation float64           `json:"stock_rotation"`
}

type StockRotationEntry struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	OutboundLast30 int       `json:"outbound_last_30_days"`
	AverageStock   float64   `json:"average_stock"`
	Rotation       float64   `json:"rotation"`
}
