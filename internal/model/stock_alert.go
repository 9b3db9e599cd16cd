package model

import (
	"time"

	"github.com/google/uuid"
)

// StockAlert is the per-product low-stock threshold.
// IsNotified is a one-way latch: once stock drops to or below MinimumStock the
// flag is set and stays set until an admin reconfigures the alert, so the shop
// is not spammed with one notification per subsequent movement.
type StockAlert struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	MinimumStock     int       `gorm:"not null;default:0"`
	IsActive         bool      `gorm:"not null;default:true"`
	IsNotified       bool      `gorm:"not null;default:false"`
	LastNotification *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
