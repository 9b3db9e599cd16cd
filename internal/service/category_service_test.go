package service

import (
	"context"
	"fmt"
	"testing"

	"intercolor/internal/dto"
	"intercolor/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryFixture(t *testing.T) (CategoryService, *stubCategoryRepo) {
	t.Helper()
	repo := newStubCategoryRepo()
	return NewCategoryService(nil, repo), repo
}

func TestCategoryCreateGeneratesSlug(t *testing.T) {
	svc, _ := newCategoryFixture(t)

	cat, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Pinturas al Látex"})
	require.NoError(t, err)
	assert.Equal(t, "pinturas-al-latex", cat.Slug)
	assert.True(t, cat.Active)
}

func TestCategorySlugCollisionGetsSuffix(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Esmaltes"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Esmaltes"})
	require.NoError(t, err)

	assert.Equal(t, "esmaltes", first.Slug)
	assert.Equal(t, "esmaltes-2", second.Slug)
}

func TestCategoryCycleRejected(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "B", ParentID: &a.ID})
	require.NoError(t, err)
	c, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "C", ParentID: &b.ID})
	require.NoError(t, err)

	// A → B → C; making C the parent of A closes a cycle.
	_, err = svc.Update(ctx, a.ID, dto.UpdateCategoryRequest{ParentID: &c.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// Self-parenting is the degenerate case.
	_, err = svc.Update(ctx, a.ID, dto.UpdateCategoryRequest{ParentID: &a.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)
}

func TestCategoryReparentBeyondDepthCapRejected(t *testing.T) {
	svc, repo := newCategoryFixture(t)
	ctx := context.Background()

	// A chain deeper than the walk cap cannot be proven cycle-free.
	var parent *uuid.UUID
	ids := make([]uuid.UUID, 120)
	for i := range ids {
		cat := &model.Category{Name: fmt.Sprintf("Nivel %d", i), Slug: fmt.Sprintf("nivel-%d", i), ParentID: parent, Active: true}
		require.NoError(t, repo.Create(ctx, cat))
		ids[i] = cat.ID
		parent = &ids[i]
	}

	orphan, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Suelto"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, orphan.ID, dto.UpdateCategoryRequest{ParentID: parent})
	assert.ErrorIs(t, err, ErrCategoryCycle)
}

func TestCategoryReparentValidMove(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Interiores"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Exteriores"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Latex", ParentID: &a.ID})
	require.NoError(t, err)

	moved, err := svc.Update(ctx, child.ID, dto.UpdateCategoryRequest{ParentID: &b.ID})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, b.ID, *moved.ParentID)
}

func TestCategoryDeletePromotesChildrenAndProducts(t *testing.T) {
	svc, repo := newCategoryFixture(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Pinturas"})
	require.NoError(t, err)
	middle, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Sinteticos", ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Brillantes", ParentID: &middle.ID})
	require.NoError(t, err)

	productID := uuid.New()
	repo.products[middle.ID] = []uuid.UUID{productID}

	require.NoError(t, svc.Delete(ctx, middle.ID))

	// The leaf moved up to the deleted node's parent.
	got, err := repo.FindByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)

	// The product followed the same promotion.
	assert.Contains(t, repo.products[root.ID], productID)
	assert.Empty(t, repo.products[middle.ID])
}

func TestCategoryDeleteRootOrphansToTopLevel(t *testing.T) {
	svc, repo := newCategoryFixture(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Accesorios"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Pinceles", ParentID: &root.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, root.ID))

	got, err := repo.FindByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestCategoryTreeNesting(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	root, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Pinturas"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "Latex", ParentID: &root.ID})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "latex", tree[0].Children[0].Slug)
}

func TestCategoryToggleActive(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Ofertas"})
	require.NoError(t, err)
	require.True(t, cat.Active)

	toggled, err := svc.ToggleActive(ctx, cat.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
}
