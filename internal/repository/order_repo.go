package repository

import (
	"context"
	"time"

	"intercolor/internal/dto"
	"intercolor/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevenueRow is one bucket of the revenue-by-period report.
type RevenueRow struct {
	Period  time.Time
	Orders  int64
	Revenue decimal.Decimal
}

// TopProductRow aggregates sales per product.
type TopProductRow struct {
	ProductID uuid.UUID
	Name      string
	UnitsSold int64
	Revenue   decimal.Decimal
}

type OrderRepository interface {
	CreateTx(tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdateTx locks the order row so concurrent status transitions
	// serialize.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	ListItemsTx(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, perPage int) ([]model.Order, int64, error)
	List(ctx context.Context, filter dto.OrderListFilter) ([]model.Order, int64, error)
	UpdateStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error
	CreateStatusHistoryTx(tx *gorm.DB, history *model.OrderStatusHistory) error
	StatusHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	RevenueSince(ctx context.Context, since *time.Time) (decimal.Decimal, error)
	RevenueByPeriod(ctx context.Context, trunc string, since time.Time) ([]RevenueRow, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProductRow, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateTx(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListItemsTx(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := tx.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, perPage int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) List(ctx context.Context, filter dto.OrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatusTx(tx *gorm.DB, orderID uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("status", status).Error
}

func (r *orderRepository) CreateStatusHistoryTx(tx *gorm.DB, history *model.OrderStatusHistory) error {
	return tx.Create(history).Error
}

func (r *orderRepository) StatusHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error) {
	var histories []model.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&histories).Error
	return histories, err
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *orderRepository) RevenueSince(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(total_amount)").
		Where("status <> ?", model.OrderStatusCancelled)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if err := q.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *orderRepository) RevenueByPeriod(ctx context.Context, trunc string, since time.Time) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE_TRUNC(?, created_at) AS period, COUNT(*) AS orders, SUM(total_amount) AS revenue", trunc).
		Where("status <> ? AND created_at >= ?", model.OrderStatusCancelled, since).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select(`oi.product_id, p.name,
			SUM(oi.quantity) AS units_sold,
			SUM(oi.quantity * oi.price_at_time) AS revenue`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("o.status <> ? AND o.created_at >= ?", model.OrderStatusCancelled, since).
		Group("oi.product_id, p.name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
