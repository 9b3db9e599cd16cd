package service

import (
	"context"

	"intercolor/internal/dto"
	"intercolor/internal/model"
	"intercolor/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService drives the order lifecycle. Creation converts the cart into an
// immutable order in one transaction; after that only the status column
// mutates, each transition leaving a history row.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*dto.OrderResponse, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, perPage int) (*dto.PaginatedOrders, error)
	List(ctx context.Context, filter dto.OrderListFilter) (*dto.PaginatedOrders, error)
	// UpdateStatus records the transition unconditionally, then reverses the
	// stock consumption exactly once when the order enters cancelled from a
	// non-cancelled state.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req dto.UpdateOrderStatusRequest, actorID *uuid.UUID) (*dto.OrderResponse, error)
	StatusHistory(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) ([]dto.OrderStatusHistoryEntry, error)
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	stockSvc    StockService
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, stockSvc StockService) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		stockSvc:    stockSvc,
	}
}

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var created *model.Order

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		cartItems, err := s.cartRepo.ListByUserTx(tx, userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		// Lock every product row up front, snapshot the live price and verify
		// availability before anything is written.
		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			product, err := s.productRepo.FindByIDForUpdateTx(tx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Status != model.ProductStatusActive {
				return ErrProductInactive
			}
			if product.Stock < item.Quantity {
				return ErrInsufficientStock
			}
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				PriceAtTime: product.Price,
			})
		}

		paypalID := req.PaypalOrderID
		status := req.Status
		if status == "" {
			status = model.OrderStatusPending
		}
		order := &model.Order{
			UserID:          userID,
			TotalAmount:     total,
			Status:          status,
			PaypalOrderID:   &paypalID,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingState:   req.ShippingState,
			ShippingZip:     req.ShippingZip,
			Notes:           req.Notes,
			Items:           orderItems,
		}
		if err := s.orderRepo.CreateTx(tx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := s.stockSvc.ConsumeForOrderTx(tx, item.ProductID, item.Quantity, order.ID, &userID); err != nil {
				return err
			}
		}

		if err := s.cartRepo.DeleteByUserTx(tx, userID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", created.ID.String()).
		Str("user_id", userID.String()).
		Str("total", created.TotalAmount.String()).
		Msg("order created")

	full, err := s.orderRepo.FindByID(ctx, created.ID)
	if err != nil {
		// The order committed; fall back to the in-memory copy.
		return orderToDTO(created), nil
	}
	return orderToDTO(full), nil
}

func (s *orderService) Get(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return orderToDTO(order), nil
}

func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID, page, perPage int) (*dto.PaginatedOrders, error) {
	page, perPage = normalizePage(page, perPage)
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, err
	}
	return paginateOrders(orders, total, page, perPage), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderListFilter) (*dto.PaginatedOrders, error) {
	filter.Page, filter.PerPage = normalizePage(filter.Page, filter.PerPage)
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return paginateOrders(orders, total, filter.Page, filter.PerPage), nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req dto.UpdateOrderStatusRequest, actorID *uuid.UUID) (*dto.OrderResponse, error) {
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			return err
		}

		oldStatus := order.Status
		if err := s.orderRepo.UpdateStatusTx(tx, orderID, req.Status); err != nil {
			return err
		}

		// History is appended for every transition, including same-to-same.
		history := &model.OrderStatusHistory{
			OrderID:   orderID,
			OldStatus: oldStatus,
			NewStatus: req.Status,
			Notes:     req.Notes,
			ChangedBy: actorID,
		}
		if err := s.orderRepo.CreateStatusHistoryTx(tx, history); err != nil {
			return err
		}

		// Stock returns only on the first entry into cancelled. A cancelled
		// order re-marked cancelled must not restore twice.
		if req.Status == model.OrderStatusCancelled && oldStatus != model.OrderStatusCancelled {
			items, err := s.orderRepo.ListItemsTx(tx, orderID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := s.stockSvc.RestoreForOrderTx(tx, item.ProductID, item.Quantity, orderID, actorID); err != nil {
					return err
				}
			}
			log.Info().
				Str("order_id", orderID.String()).
				Int("items", len(items)).
				Msg("order cancelled, stock restored")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return orderToDTO(order), nil
}

func (s *orderService) StatusHistory(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) ([]dto.OrderStatusHistoryEntry, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}

	histories, err := s.orderRepo.StatusHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.OrderStatusHistoryEntry, 0, len(histories))
	for _, h := range histories {
		entries = append(entries, dto.OrderStatusHistoryEntry{
			ID:        h.ID,
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			Notes:     h.Notes,
			ChangedBy: h.ChangedBy,
			CreatedAt: h.CreatedAt,
		})
	}
	return entries, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int {
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

func paginateOrders(orders []model.Order, total int64, page, perPage int) *dto.PaginatedOrders {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToDTO(&orders[i]))
	}
	return &dto.PaginatedOrders{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}
}

func orderToDTO(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Subtotal:    item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaypalOrderID:   o.PaypalOrderID,
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingState:   o.ShippingState,
		ShippingZip:     o.ShippingZip,
		Notes:           o.Notes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}
