package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the self-referential category tree.
// ParentID nil means root. The tree must stay cycle-free: the service layer
// walks the descendant closure before any re-parenting commit.
type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Slug         string    `gorm:"index;not null"`
	Description  *string
	ParentID     *uuid.UUID `gorm:"type:uuid;index"`
	DisplayOrder int        `gorm:"not null;default:0"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Parent   *Category  `gorm:"foreignKey:ParentID"`
	Children []Category `gorm:"foreignKey:ParentID"`
	Products []Product  `gorm:"many2many:category_product"`
}

// TableName keeps the pivot name stable ("category_product") regardless of
// GORM pluralization.
func (Category) TableName() string { return "categories" }
