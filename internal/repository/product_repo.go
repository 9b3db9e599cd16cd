package repository

import (
	"context"

	"intercolor/internal/dto"
	"intercolor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindByIDForUpdateTx loads the product row under SELECT ... FOR UPDATE so
	// concurrent stock mutations serialize on the row lock.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// UpdateStockTx applies a relative stock change inside tx.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	// SetStockTx writes an absolute stock value inside tx.
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error
	ReplaceCategories(ctx context.Context, product *model.Product, categories []model.Category) error
	List(ctx context.Context, page, perPage int) ([]model.Product, int64, error)
	ListPublic(ctx context.Context, filter dto.PublicProductFilter) ([]model.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
	// AvgStock averages the current stock level across the whole catalog.
	AvgStock(ctx context.Context) (float64, error)
	ListAll(ctx context.Context) ([]model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("StockAlert").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productRepository) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", stock).Error
}

func (r *productRepository) ReplaceCategories(ctx context.Context, product *model.Product, categories []model.Category) error {
	return r.db.WithContext(ctx).Model(product).Association("Categories").Replace(categories)
}

func (r *productRepository) List(ctx context.Context, page, perPage int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Categories").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListPublic(ctx context.Context, filter dto.PublicProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_public = ? AND status = ?", true, model.ProductStatusActive)

	if filter.CategoryID != nil {
		q = q.Joins("JOIN category_product cp ON cp.product_id = products.id").
			Where("cp.category_id = ?", *filter.CategoryID)
	}
	if filter.Color != nil {
		q = q.Where("color = ?", *filter.Color)
	}
	if filter.ProductType != nil {
		q = q.Where("product_type = ?", *filter.ProductType)
	}
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}
	if filter.Search != nil {
		q = q.Where("name ILIKE ?", "%"+*filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Categories").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("featured = ? AND is_public = ? AND status = ?", true, true, model.ProductStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepository) AvgStock(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("AVG(stock)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("StockAlert").Order("name ASC").Find(&products).Error
	return products, err
}
