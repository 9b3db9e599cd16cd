package service

import (
	"context"
	"errors"
	"math"
	"time"

	"intercolor/internal/dto"
	"intercolor/internal/model"
	"intercolor/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AlertNotifier queues a low-stock notification for async delivery. The
// worker pool implements it; tests plug in a stub.
type AlertNotifier interface {
	NotifyLowStock(ctx context.Context, productName string, stock, minimumStock int)
}

// StockService owns every stock mutation. Products' stock column changes only
// through this service so each movement leaves an audit row and the alert
// latch is evaluated exactly once per movement.
type StockService interface {
	// Adjust applies a manual stock movement: entrada adds, salida subtracts
	// (failing when stock would go negative), ajuste sets an absolute value.
	Adjust(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest, actorID *uuid.UUID) (*dto.StockHistoryEntry, error)
	// ConsumeForOrderTx decrements stock for an order item inside the caller's
	// transaction, recording a salida movement referencing the order.
	ConsumeForOrderTx(tx *gorm.DB, productID uuid.UUID, quantity int, orderID uuid.UUID, actorID *uuid.UUID) error
	// RestoreForOrderTx returns an order item's stock on cancellation,
	// recording an entrada movement referencing the order.
	RestoreForOrderTx(tx *gorm.DB, productID uuid.UUID, quantity int, orderID uuid.UUID, actorID *uuid.UUID) error
	History(ctx context.Context, productID *uuid.UUID, timeRange string, page, perPage int) ([]dto.StockHistoryEntry, int64, error)
	SetAlert(ctx context.Context, productID uuid.UUID, req dto.SetStockAlertRequest) (*model.StockAlert, error)
	LowStock(ctx context.Context) (*dto.LowStockReport, error)
	// Rotation computes the annualized stock rotation index for a product:
	// outbound units over the last 30 days divided by the average stock level,
	// scaled to a yearly rate and rounded to one decimal.
	Rotation(ctx context.Context, productID uuid.UUID) (*dto.StockRotationEntry, error)
}

type stockService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	notifier    AlertNotifier
}

func NewStockService(db *gorm.DB, productRepo repository.ProductRepository, stockRepo repository.StockRepository, notifier AlertNotifier) StockService {
	return &stockService{
		db:          db,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		notifier:    notifier,
	}
}

type pendingAlert struct {
	productName  string
	stock        int
	minimumStock int
}

func (s *stockService) Adjust(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest, actorID *uuid.UUID) (*dto.StockHistoryEntry, error) {
	var entry *dto.StockHistoryEntry
	var alert *pendingAlert

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDForUpdateTx(tx, productID)
		if err != nil {
			return err
		}

		previous := product.Stock
		var newStock, changed int

		switch req.Type {
		case model.StockTypeEntrada:
			newStock = previous + req.Quantity
			changed = req.Quantity
		case model.StockTypeSalida:
			if previous < req.Quantity {
				return ErrInsufficientStock
			}
			newStock = previous - req.Quantity
			changed = req.Quantity
		case model.StockTypeAjuste:
			newStock = req.Quantity
			changed = newStock - previous
		}

		if err := s.productRepo.SetStockTx(tx, productID, newStock); err != nil {
			return err
		}

		history := &model.StockHistory{
			ProductID:       productID,
			PreviousStock:   previous,
			NewStock:        newStock,
			QuantityChanged: changed,
			Type:            req.Type,
			ReferenceType:   model.StockRefManual,
			Notes:           req.Notes,
			CreatedBy:       actorID,
		}
		if err := s.stockRepo.CreateHistoryTx(tx, history); err != nil {
			return err
		}

		alert, err = s.checkAlertTx(tx, productID, product.Name, newStock)
		if err != nil {
			return err
		}

		entry = historyToDTO(history, product.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if alert != nil && s.notifier != nil {
		s.notifier.NotifyLowStock(ctx, alert.productName, alert.stock, alert.minimumStock)
	}
	return entry, nil
}

func (s *stockService) ConsumeForOrderTx(tx *gorm.DB, productID uuid.UUID, quantity int, orderID uuid.UUID, actorID *uuid.UUID) error {
	product, err := s.productRepo.FindByIDForUpdateTx(tx, productID)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return ErrInsufficientStock
	}

	if err := s.productRepo.UpdateStockTx(tx, productID, -quantity); err != nil {
		return err
	}

	refID := orderID
	history := &model.StockHistory{
		ProductID:       productID,
		PreviousStock:   product.Stock,
		NewStock:        product.Stock - quantity,
		QuantityChanged: quantity,
		Type:            model.StockTypeSalida,
		ReferenceType:   model.StockRefOrder,
		ReferenceID:     &refID,
		CreatedBy:       actorID,
	}
	if err := s.stockRepo.CreateHistoryTx(tx, history); err != nil {
		return err
	}

	alert, err := s.checkAlertTx(tx, productID, product.Name, product.Stock-quantity)
	if err != nil {
		return err
	}
	if alert != nil && s.notifier != nil {
		// The caller's transaction may still roll back; a spurious alert email
		// is acceptable, a missed one is not.
		s.notifier.NotifyLowStock(context.Background(), alert.productName, alert.stock, alert.minimumStock)
	}
	return nil
}

func (s *stockService) RestoreForOrderTx(tx *gorm.DB, productID uuid.UUID, quantity int, orderID uuid.UUID, actorID *uuid.UUID) error {
	product, err := s.productRepo.FindByIDForUpdateTx(tx, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.UpdateStockTx(tx, productID, quantity); err != nil {
		return err
	}

	refID := orderID
	notes := "Devolucion por cancelacion de pedido"
	history := &model.StockHistory{
		ProductID:       productID,
		PreviousStock:   product.Stock,
		NewStock:        product.Stock + quantity,
		QuantityChanged: quantity,
		Type:            model.StockTypeEntrada,
		ReferenceType:   model.StockRefOrder,
		ReferenceID:     &refID,
		Notes:           &notes,
		CreatedBy:       actorID,
	}
	return s.stockRepo.CreateHistoryTx(tx, history)
}

// checkAlertTx evaluates the low-stock latch after a movement. The latch is
// one-way: it arms on the first crossing below the threshold and stays armed
// until an admin resets it through SetAlert, so restocks do not re-trigger
// notification spam.
func (s *stockService) checkAlertTx(tx *gorm.DB, productID uuid.UUID, productName string, newStock int) (*pendingAlert, error) {
	stockAlert, err := s.stockRepo.FindAlertByProductTx(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !stockAlert.IsActive || stockAlert.IsNotified || newStock > stockAlert.MinimumStock {
		return nil, nil
	}

	now := time.Now()
	stockAlert.IsNotified = true
	stockAlert.LastNotification = &now
	if err := s.stockRepo.UpdateAlertTx(tx, stockAlert); err != nil {
		return nil, err
	}

	log.Warn().
		Str("product_id", productID.String()).
		Int("stock", newStock).
		Int("minimum_stock", stockAlert.MinimumStock).
		Msg("low stock threshold crossed")

	return &pendingAlert{
		productName:  productName,
		stock:        newStock,
		minimumStock: stockAlert.MinimumStock,
	}, nil
}

func (s *stockService) History(ctx context.Context, productID *uuid.UUID, timeRange string, page, perPage int) ([]dto.StockHistoryEntry, int64, error) {
	var since *time.Time
	now := time.Now()
	switch timeRange {
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, -1, 0)
		since = &t
	case "year":
		t := now.AddDate(-1, 0, 0)
		since = &t
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	histories, total, err := s.stockRepo.ListHistory(ctx, productID, since, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]dto.StockHistoryEntry, 0, len(histories))
	for i := range histories {
		h := &histories[i]
		name := ""
		if h.Product != nil {
			name = h.Product.Name
		}
		entries = append(entries, *historyToDTO(h, name))
	}
	return entries, total, nil
}

func (s *stockService) SetAlert(ctx context.Context, productID uuid.UUID, req dto.SetStockAlertRequest) (*model.StockAlert, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	stockAlert, err := s.stockRepo.FindAlertByProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		stockAlert = &model.StockAlert{ProductID: productID}
	}

	stockAlert.MinimumStock = req.MinimumStock
	if req.IsActive != nil {
		stockAlert.IsActive = *req.IsActive
	} else {
		stockAlert.IsActive = true
	}
	// Reconfiguring the threshold re-arms the latch.
	stockAlert.IsNotified = false

	if err := s.stockRepo.UpsertAlert(ctx, stockAlert); err != nil {
		return nil, err
	}
	return stockAlert, nil
}

func (s *stockService) LowStock(ctx context.Context) (*dto.LowStockReport, error) {
	rows, err := s.stockRepo.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.LowStockReport{Products: make([]dto.LowStockProduct, 0, len(rows))}

	for _, row := range rows {
		report.Products = append(report.Products, dto.LowStockProduct{
			ProductID:    row.ProductID,
			Name:         row.Name,
			Stock:        row.Stock,
			MinimumStock: row.MinimumStock,
			IsNotified:   row.IsNotified,
			LastNotified: row.LastNotification,
		})
	}

	// Catalog-wide turnover: outbound units over the trailing 30 days against
	// the average current stock level, annualized.
	since := time.Now().AddDate(0, 0, -30)
	outbound, err := s.stockRepo.SumOutboundAllSince(ctx, since)
	if err != nil {
		return nil, err
	}
	avg, err := s.productRepo.AvgStock(ctx)
	if err != nil {
		return nil, err
	}
	if avg > 0 {
		report.StockRotation = math.Round(float64(outbound)/avg*4*10) / 10
	}

	if report.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// rotationFor computes the annualized turnover for one product: outbound
// units over the trailing 30 days divided by the average stock level in that
// window, scaled to a year and rounded to one decimal.
func (s *stockService) rotationFor(ctx context.Context, productID uuid.UUID, currentStock int) (outbound int, avg, rotation float64, err error) {
	since := time.Now().AddDate(0, 0, -30)

	outbound, err = s.stockRepo.SumOutboundSince(ctx, productID, since)
	if err != nil {
		return 0, 0, 0, err
	}

	avg, ok, err := s.stockRepo.AvgNewStockSince(ctx, productID, since)
	if err != nil {
		return 0, 0, 0, err
	}
	if !ok {
		// No movements in the window; the current level is the average.
		avg = float64(currentStock)
	}

	if avg > 0 {
		rotation = math.Round(float64(outbound)/avg*4*10) / 10
	}
	return outbound, avg, rotation, nil
}

func (s *stockService) Rotation(ctx context.Context, productID uuid.UUID) (*dto.StockRotationEntry, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	outbound, avg, rotation, err := s.rotationFor(ctx, productID, product.Stock)
	if err != nil {
		return nil, err
	}

	return &dto.StockRotationEntry{
		ProductID:      productID,
		Name:           product.Name,
		OutboundLast30: outbound,
		AverageStock:   avg,
		Rotation:       rotation,
	}, nil
}

func historyToDTO(h *model.StockHistory, productName string) *dto.StockHistoryEntry {
	return &dto.StockHistoryEntry{
		ID:              h.ID,
		ProductID:       h.ProductID,
		ProductName:     productName,
		PreviousStock:   h.PreviousStock,
		NewStock:        h.NewStock,
		QuantityChanged: h.QuantityChanged,
		Type:            h.Type,
		ReferenceType:   h.ReferenceType,
		ReferenceID:     h.ReferenceID,
		Notes:           h.Notes,
		CreatedBy:       h.CreatedBy,
		CreatedAt:       h.CreatedAt,
	}
}
