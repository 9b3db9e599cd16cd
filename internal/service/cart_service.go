package service

import (
	"context"
	"errors"

	"intercolor/internal/dto"
	"intercolor/internal/model"
	"intercolor/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService manages the per-user cart. Adding a product already in the cart
// sums quantities; the price snapshot taken when the line was created is kept.
type CartService interface {
	Add(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req dto.UpdateCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*dto.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) Add(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Status != model.ProductStatusActive || !product.IsPublic {
		return nil, ErrProductInactive
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, req.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The stock check covers the combined quantity, not just the increment.
	combined := req.Quantity
	if existing != nil {
		combined += existing.Quantity
	}
	if product.Stock < combined {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = combined
		if err := s.cartRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		item := &model.CartItem{
			UserID:      userID,
			ProductID:   req.ProductID,
			Quantity:    req.Quantity,
			PriceAtTime: product.Price,
		}
		if err := s.cartRepo.Create(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID)
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CartResponse{
		Items: make([]dto.CartItemResponse, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		name := ""
		var imageURL *string
		if item.Product != nil {
			name = item.Product.Name
			imageURL = item.Product.ImageURL
		}
		subtotal := item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity)))
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: name,
			ImageURL:    imageURL,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Subtotal:    subtotal,
		})
		resp.ItemCount += item.Quantity
		resp.Total = resp.Total.Add(subtotal)
	}
	return resp, nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < req.Quantity {
		return nil, ErrInsufficientStock
	}

	item.Quantity = req.Quantity
	if err := s.cartRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*dto.CartResponse, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}

	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}
