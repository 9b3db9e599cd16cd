package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is a catalog item (paint, accessory, tool).
// Stock is mutated exclusively through the stock service so that every change
// leaves a StockHistory row; no other code path may write the column.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	Status      string          `gorm:"not null;default:'active'"` // "active" | "inactive"
	IsPublic    bool            `gorm:"not null;default:true"`
	Featured    bool            `gorm:"not null;default:false"`
	Color       *string
	ProductType *string `gorm:"column:product_type"`
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categories []Category  `gorm:"many2many:category_product"`
	StockAlert *StockAlert `gorm:"foreignKey:ProductID"`
}
