package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"intercolor/internal/dto"
	"intercolor/internal/model"
	"intercolor/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxTreeDepth bounds the ancestor walk so a corrupted parent chain cannot
// spin forever.
const maxTreeDepth = 100

// CategoryService manages the category tree. Re-parenting is validated
// against cycles; deleting a node promotes its children and products to the
// deleted node's parent instead of orphaning them.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	// Tree returns the full hierarchy, roots first, children nested and
	// ordered by display_order.
	Tree(ctx context.Context) ([]dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Reorder(ctx context.Context, req dto.ReorderCategoriesRequest) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(db *gorm.DB, categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{db: db, categoryRepo: categoryRepo}
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases, transliterates the common Spanish accents and collapses
// everything else to hyphens.
func slugify(name string) string {
	s := strings.ToLower(name)
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	)
	s = replacer.Replace(s)
	s = slugStripRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *categoryService) uniqueSlug(ctx context.Context, base string, selfID *uuid.UUID) (string, error) {
	slug := base
	for i := 2; ; i++ {
		existing, err := s.categoryRepo.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return slug, nil
			}
			return "", err
		}
		if selfID != nil && existing.ID == *selfID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// checkCycle walks the ancestor chain from parentID and fails if it reaches
// id, which would make the category its own descendant. A chain deeper than
// maxTreeDepth is rejected too: an unresolved walk cannot prove the move is
// cycle-free.
func (s *categoryService) checkCycle(ctx context.Context, id uuid.UUID, parentID uuid.UUID) error {
	current := &parentID
	for depth := 0; depth < maxTreeDepth; depth++ {
		if current == nil {
			return nil
		}
		if *current == id {
			return ErrCategoryCycle
		}
		parent, err := s.categoryRepo.FindByID(ctx, *current)
		if err != nil {
			return err
		}
		current = parent.ParentID
	}
	return ErrCategoryCycle
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(ctx, slugify(req.Name), nil)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	category := &model.Category{
		Name:         req.Name,
		Slug:         slug,
		Description:  req.Description,
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
		Active:       active,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return s.Get(ctx, category.ID)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		slug, err := s.uniqueSlug(ctx, slugify(*req.Name), &id)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.ClearParent {
		category.ParentID = nil
	} else if req.ParentID != nil {
		if err := s.checkCycle(ctx, id, *req.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.ParentID
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	// Preloaded children confuse Save; persist a bare copy.
	category.Children = nil
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Children and products are promoted to the deleted node's parent, so
	// deleting a middle node never detaches a subtree.
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.categoryRepo.ReparentChildrenTx(tx, id, category.ParentID); err != nil {
			return err
		}
		if err := s.categoryRepo.ReassignProductsTx(tx, id, category.ParentID); err != nil {
			return err
		}
		return s.categoryRepo.DeleteTx(tx, id)
	})
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := categoryToDTO(category)
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	resp.ProductCount = count

	for _, child := range category.Children {
		resp.Children = append(resp.Children, *categoryToDTO(&child))
	}
	return resp, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, category.ID)
}

func (s *categoryService) Tree(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Assemble in memory; ListAll already ordered by display_order.
	byParent := make(map[uuid.UUID][]*model.Category)
	var roots []*model.Category
	for i := range categories {
		c := &categories[i]
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	var build func(c *model.Category) dto.CategoryResponse
	build = func(c *model.Category) dto.CategoryResponse {
		node := *categoryToDTO(c)
		for _, child := range byParent[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]dto.CategoryResponse, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root))
	}
	return tree, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToDTO(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) Reorder(ctx context.Context, req dto.ReorderCategoriesRequest) error {
	for _, order := range req.Orders {
		if err := s.categoryRepo.UpdateDisplayOrder(ctx, order.ID, order.DisplayOrder); err != nil {
			return err
		}
	}
	return nil
}

func (s *categoryService) ToggleActive(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Active = !category.Active
	category.Children = nil
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func categoryToDTO(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ParentID:     c.ParentID,
		DisplayOrder: c.DisplayOrder,
		Active:       c.Active,
	}
}
