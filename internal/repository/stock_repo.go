package repository

import (
	"context"
	"time"

	"intercolor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LowStockRow joins a product with its alert threshold for the admin
// dashboard.
type LowStockRow struct {
	ProductID        uuid.UUID
	Name             string
	Stock            int
	MinimumStock     int
	IsNotified       bool
	LastNotification *time.Time
}

type StockRepository interface {
	CreateHistoryTx(tx *gorm.DB, history *model.StockHistory) error
	ListHistory(ctx context.Context, productID *uuid.UUID, since *time.Time, page, perPage int) ([]model.StockHistory, int64, error)
	// SumOutboundSince totals salida quantities for a product from `since` on.
	SumOutboundSince(ctx context.Context, productID uuid.UUID, since time.Time) (int, error)
	// SumOutboundAllSince totals salida quantities across the whole catalog.
	SumOutboundAllSince(ctx context.Context, since time.Time) (int, error)
	// AvgNewStockSince averages the post-movement stock levels recorded from
	// `since` on. Returns ok=false when the product has no movements in range.
	AvgNewStockSince(ctx context.Context, productID uuid.UUID, since time.Time) (float64, bool, error)
	UpsertAlert(ctx context.Context, alert *model.StockAlert) error
	FindAlertByProduct(ctx context.Context, productID uuid.UUID) (*model.StockAlert, error)
	FindAlertByProductTx(tx *gorm.DB, productID uuid.UUID) (*model.StockAlert, error)
	UpdateAlertTx(tx *gorm.DB, alert *model.StockAlert) error
	LowStockProducts(ctx context.Context) ([]LowStockRow, error)
	CountLowStock(ctx context.Context) (int64, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) CreateHistoryTx(tx *gorm.DB, history *model.StockHistory) error {
	return tx.Create(history).Error
}

func (r *stockRepository) ListHistory(ctx context.Context, productID *uuid.UUID, since *time.Time, page, perPage int) ([]model.StockHistory, int64, error) {
	var histories []model.StockHistory
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockHistory{})
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&histories).Error
	return histories, total, err
}

func (r *stockRepository) SumOutboundSince(ctx context.Context, productID uuid.UUID, since time.Time) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).Model(&model.StockHistory{}).
		Select("SUM(quantity_changed)").
		Where("product_id = ? AND type = ? AND created_at >= ?", productID, model.StockTypeSalida, since).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *stockRepository) SumOutboundAllSince(ctx context.Context, since time.Time) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).Model(&model.StockHistory{}).
		Select("SUM(quantity_changed)").
		Where("type = ? AND created_at >= ?", model.StockTypeSalida, since).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *stockRepository) AvgNewStockSince(ctx context.Context, productID uuid.UUID, since time.Time) (float64, bool, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.StockHistory{}).
		Select("AVG(new_stock)").
		Where("product_id = ? AND created_at >= ?", productID, since).
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

func (r *stockRepository) UpsertAlert(ctx context.Context, alert *model.StockAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *stockRepository) FindAlertByProduct(ctx context.Context, productID uuid.UUID) (*model.StockAlert, error) {
	var alert model.StockAlert
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *stockRepository) FindAlertByProductTx(tx *gorm.DB, productID uuid.UUID) (*model.StockAlert, error) {
	var alert model.StockAlert
	if err := tx.Where("product_id = ?", productID).First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *stockRepository) UpdateAlertTx(tx *gorm.DB, alert *model.StockAlert) error {
	return tx.Save(alert).Error
}

func (r *stockRepository) LowStockProducts(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("products p").
		Select(`p.id AS product_id, p.name, p.stock,
			a.minimum_stock, a.is_notified, a.last_notification`).
		Joins("JOIN stock_alerts a ON a.product_id = p.id").
		Where("a.is_active = ? AND p.stock <= a.minimum_stock", true).
		Order("p.stock ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *stockRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN stock_alerts a ON a.product_id = p.id").
		Where("a.is_active = ? AND p.stock <= a.minimum_stock", true).
		Count(&count).Error
	return count, err
}
