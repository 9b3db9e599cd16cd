package repository

import (
	"context"

	"intercolor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)
	ListRoots(ctx context.Context) ([]model.Category, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.Category, error)
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
	UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error
	// ReparentChildrenTx moves every direct child of categoryID to newParentID
	// (nil promotes them to roots).
	ReparentChildrenTx(tx *gorm.DB, categoryID uuid.UUID, newParentID *uuid.UUID) error
	// ReassignProductsTx re-attaches the category's products to newParentID in
	// the join table, skipping products already attached there, then removes
	// the old attachments.
	ReassignProductsTx(tx *gorm.DB, categoryID uuid.UUID, newParentID *uuid.UUID) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, name ASC")
		}).
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListRoots(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("category_product").
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *categoryRepository) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", id).
		UpdateColumn("display_order", order).Error
}

func (r *categoryRepository) ReparentChildrenTx(tx *gorm.DB, categoryID uuid.UUID, newParentID *uuid.UUID) error {
	return tx.Model(&model.Category{}).
		Where("parent_id = ?", categoryID).
		UpdateColumn("parent_id", newParentID).Error
}

func (r *categoryRepository) ReassignProductsTx(tx *gorm.DB, categoryID uuid.UUID, newParentID *uuid.UUID) error {
	if newParentID != nil {
		err := tx.Exec(`
			INSERT INTO category_product (category_id, product_id)
			SELECT ?, product_id FROM category_product WHERE category_id = ?
			ON CONFLICT DO NOTHING`,
			*newParentID, categoryID,
		).Error
		if err != nil {
			return err
		}
	}
	return tx.Exec(`DELETE FROM category_product WHERE category_id = ?`, categoryID).Error
}

func (r *categoryRepository) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Category{}, "id = ?", id).Error
}
