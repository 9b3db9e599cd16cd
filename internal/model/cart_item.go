package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line in a user's cart. (UserID, ProductID) is unique; adding
// the same product again sums quantities. PriceAtTime is snapshotted when the
// line is created and never recomputed, whatever happens to the catalog price.
type CartItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity    int             `gorm:"not null;check:quantity >= 1"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
