package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Status      string          `json:"status" validate:"omitempty,oneof=active inactive"`
	IsPublic    *bool           `json:"is_public"`
	Featured    *bool           `json:"featured"`
	Color       *string         `json:"color" validate:"omitempty,max=50"`
	ProductType *string         `json:"product_type" validate:"omitempty,max=100"`
	ImageURL    *string         `json:"image_url" validate:"omitempty,url"`
	CategoryIDs []uuid.UUID     `json:"category_ids" validate:"omitempty,dive,required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`
	IsPublic    *bool            `json:"is_public"`
	Featured    *bool            `json:"featured"`
	Color       *string          `json:"color" validate:"omitempty,max=50"`
	ProductType *string          `json:"product_type" validate:"omitempty,max=100"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	CategoryIDs []uuid.UUID      `json:"category_ids" validate:"omitempty,dive,required"`
}

// PublicProductFilter carries the catalog query parameters.
type PublicProductFilter struct {
	CategoryID  *uuid.UUID
	Color       *string
	ProductType *string
	Featured    *bool
	Search      *string
	Page        int
	PerPage     int
}

type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	Status      string            `json:"status"`
	IsPublic    bool              `json:"is_public"`
	Featured    bool              `json:"featured"`
	Color       *string           `json:"color,omitempty"`
	ProductType *string           `json:"product_type,omitempty"`
	ImageURL    *string           `json:"image_url,omitempty"`
	Categories  []CategorySummary `json:"categories,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type PaginatedProducts struct {
	Items      []ProductResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}
