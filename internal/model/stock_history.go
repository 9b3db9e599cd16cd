package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types for StockHistory.Type.
const (
	StockTypeEntrada = "entrada" // add quantity
	StockTypeSalida  = "salida"  // subtract quantity
	StockTypeAjuste  = "ajuste"  // set absolute value
)

// Reference types for StockHistory.ReferenceType.
const (
	StockRefManual = "manual"
	StockRefOrder  = "order"
)

// StockHistory is the append-only audit ledger: one row per stock mutation,
// never updated or deleted.
type StockHistory struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	PreviousStock   int        `gorm:"not null"`
	NewStock        int        `gorm:"not null"`
	QuantityChanged int        `gorm:"not null"`
	Type            string     `gorm:"not null"` // entrada | salida | ajuste
	ReferenceType   string     `gorm:"not null"` // manual | order
	ReferenceID     *uuid.UUID `gorm:"type:uuid"`
	Notes           *string
	CreatedBy       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Creator *User    `gorm:"foreignKey:CreatedBy"`
}

// TableName overrides GORM's pluralization (stock_histories, not stock_historys).
func (StockHistory) TableName() string { return "stock_histories" }
