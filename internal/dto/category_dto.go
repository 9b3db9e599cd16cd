package dto

import (
	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name         string     `json:"name" validate:"required,min=2,max=100"`
	Description  *string    `json:"description" validate:"omitempty,max=1000"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder int        `json:"display_order" validate:"gte=0"`
	Active       *bool      `json:"active"`
}

type UpdateCategoryRequest struct {
	Name         *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Description  *string    `json:"description" validate:"omitempty,max=1000"`
	ParentID     *uuid.UUID `json:"parent_id"`
	ClearParent  bool       `json:"clear_parent"`
	DisplayOrder *int       `json:"display_order" validate:"omitempty,gte=0"`
	Active       *bool      `json:"active"`
}

type ReorderCategoriesRequest struct {
	Orders []CategoryOrder `json:"orders" validate:"required,min=1,dive"`
}

type CategoryOrder struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	DisplayOrder int       `json:"display_order" validate:"gte=0"`
}

type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CategoryResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Description  *string            `json:"description,omitempty"`
	ParentID     *uuid.UUID         `json:"parent_id,omitempty"`
	DisplayOrder int                `json:"display_order"`
	Active       bool               `json:"active"`
	Children     []CategoryResponse `json:"children,omitempty"`
	ProductCount int64              `json:"product_count,omitempty"`
}
