package service

import (
	"context"
	"encoding/json"
	"time"

	"intercolor/internal/dto"
	"intercolor/internal/model"
	"intercolor/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyFeatured  = "cache:products:featured"
	cacheKeyProduct   = "cache:products:"
	productCacheTTL   = 10 * time.Minute
	featuredListLimit = 8
)

// ProductService manages the catalog. The public read paths are cached in
// Redis; every write invalidates the affected keys. Stock is deliberately
// absent from the write API here: it moves only through StockService.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, page, perPage int) (*dto.PaginatedProducts, error)
	ListPublic(ctx context.Context, filter dto.PublicProductFilter) (*dto.PaginatedProducts, error)
	Featured(ctx context.Context) ([]dto.ProductResponse, error)
}

type productService struct {
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{productRepo: productRepo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	status := model.ProductStatusActive
	if req.Status != "" {
		status = req.Status
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      status,
		IsPublic:    isPublic,
		Featured:    featured,
		Color:       req.Color,
		ProductType: req.ProductType,
		ImageURL:    req.ImageURL,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if len(req.CategoryIDs) > 0 {
		if err := s.productRepo.ReplaceCategories(ctx, product, categoriesFromIDs(req.CategoryIDs)); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, product.ID)
	return s.Get(ctx, product.ID)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	if req.IsPublic != nil {
		product.IsPublic = *req.IsPublic
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Color != nil {
		product.Color = req.Color
	}
	if req.ProductType != nil {
		product.ProductType = req.ProductType
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}

	// Preloaded associations must not be re-saved.
	product.Categories = nil
	product.StockAlert = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if req.CategoryIDs != nil {
		if err := s.productRepo.ReplaceCategories(ctx, product, categoriesFromIDs(req.CategoryIDs)); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToDTO(product), nil
}

func (s *productService) GetPublic(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	if cached := s.cacheGet(ctx, cacheKeyProduct+id.String()); cached != nil {
		var resp dto.ProductResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsPublic || product.Status != model.ProductStatusActive {
		return nil, ErrProductInactive
	}

	resp := productToDTO(product)
	s.cacheSet(ctx, cacheKeyProduct+id.String(), resp)
	return resp, nil
}

func (s *productService) List(ctx context.Context, page, perPage int) (*dto.PaginatedProducts, error) {
	page, perPage = normalizePage(page, perPage)
	products, total, err := s.productRepo.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return paginateProducts(products, total, page, perPage), nil
}

func (s *productService) ListPublic(ctx context.Context, filter dto.PublicProductFilter) (*dto.PaginatedProducts, error) {
	filter.Page, filter.PerPage = normalizePage(filter.Page, filter.PerPage)
	products, total, err := s.productRepo.ListPublic(ctx, filter)
	if err != nil {
		return nil, err
	}
	return paginateProducts(products, total, filter.Page, filter.PerPage), nil
}

func (s *productService) Featured(ctx context.Context) ([]dto.ProductResponse, error) {
	if cached := s.cacheGet(ctx, cacheKeyFeatured); cached != nil {
		var resp []dto.ProductResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
	}

	products, err := s.productRepo.ListFeatured(ctx, featuredListLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToDTO(&products[i]))
	}
	s.cacheSet(ctx, cacheKeyFeatured, resp)
	return resp, nil
}

// cacheGet returns nil on any cache problem; the database is the source of
// truth and cache failures must never surface to callers.
func (s *productService) cacheGet(ctx context.Context, key string) []byte {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *productService) cacheSet(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKeyProduct+id.String(), cacheKeyFeatured).Err(); err != nil {
		log.Debug().Err(err).Str("product_id", id.String()).Msg("cache invalidation failed")
	}
}

func categoriesFromIDs(ids []uuid.UUID) []model.Category {
	categories := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		categories = append(categories, model.Category{ID: id})
	}
	return categories
}

func paginateProducts(products []model.Product, total int64, page, perPage int) *dto.PaginatedProducts {
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToDTO(&products[i]))
	}
	return &dto.PaginatedProducts{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}
}

func productToDTO(p *model.Product) *dto.ProductResponse {
	categories := make([]dto.CategorySummary, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, dto.CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      p.Status,
		IsPublic:    p.IsPublic,
		Featured:    p.Featured,
		Color:       p.Color,
		ProductType: p.ProductType,
		ImageURL:    p.ImageURL,
		Categories:  categories,
		CreatedAt:   p.CreatedAt,
	}
}
