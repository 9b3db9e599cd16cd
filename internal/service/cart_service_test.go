package service

import (
	"context"
	"testing"

	"intercolor/internal/dto"
	"intercolor/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) (CartService, *stubCartRepo, *stubProductRepo) {
	t.Helper()
	products := newStubProductRepo()
	carts := newStubCartRepo(products)
	return NewCartService(carts, products), carts, products
}

func seedCatalogProduct(t *testing.T, products *stubProductRepo, stock int, price string) uuid.UUID {
	t.Helper()
	p := &model.Product{
		Name:     "Rodillo Semilana 22cm",
		Stock:    stock,
		Status:   model.ProductStatusActive,
		IsPublic: true,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, products.Create(context.Background(), p))
	return p.ID
}

func TestCartAddSnapshotsPrice(t *testing.T) {
	svc, _, products := newCartFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	productID := seedCatalogProduct(t, products, 10, "800.00")

	cart, err := svc.Add(ctx, userID, dto.AddCartItemRequest{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "800.00", cart.Items[0].PriceAtTime.StringFixed(2))
	assert.Equal(t, "1600.00", cart.Total.StringFixed(2))

	// Catalog price changes; the existing line keeps its snapshot.
	p, _ := products.FindByID(ctx, productID)
	p.Price = decimal.RequireFromString("900.00")
	require.NoError(t, products.Update(ctx, p))

	cart, err = svc.Add(ctx, userID, dto.AddCartItemRequest{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "800.00", cart.Items[0].PriceAtTime.StringFixed(2))
}

func TestCartAddChecksCombinedQuantity(t *testing.T) {
	svc, _, products := newCartFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	productID := seedCatalogProduct(t, products, 5, "100.00")

	_, err := svc.Add(ctx, userID, dto.AddCartItemRequest{ProductID: productID, Quantity: 3})
	require.NoError(t, err)

	// 3 already in cart + 3 more exceeds the 5 in stock.
	_, err = svc.Add(ctx, userID, dto.AddCartItemRequest{ProductID: productID, Quantity: 3})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	cart, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartAddRejectsInactiveProduct(t *testing.T) {
	svc, _, products := newCartFixture(t)
	ctx := context.Background()

	p := &model.Product{Name: "Retirado", Stock: 10, Status: model.ProductStatusInactive, IsPublic: true, Price: decimal.New(50, 0)}
	require.NoError(t, products.Create(ctx, p))

	_, err := svc.Add(ctx, uuid.New(), dto.AddCartItemRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestCartUpdateItemOwnership(t *testing.T) {
	svc, _, products := newCartFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	productID := seedCatalogProduct(t, products, 10, "100.00")
	cart, err := svc.Add(ctx, owner, dto.AddCartItemRequest{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	_, err = svc.UpdateItem(ctx, uuid.New(), itemID, dto.UpdateCartItemRequest{Quantity: 2})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateItem(ctx, owner, itemID, dto.UpdateCartItemRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Items[0].Quantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	svc, _, products := newCartFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	first := seedCatalogProduct(t, products, 10, "100.00")
	second := seedCatalogProduct(t, products, 10, "200.00")

	cart, err := svc.Add(ctx, userID, dto.AddCartItemRequest{ProductID: first, Quantity: 1})
	require.NoError(t, err)
	cart, err = svc.Add(ctx, userID, dto.AddCartItemRequest{ProductID: second, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	var removeID uuid.UUID
	for _, item := range cart.Items {
		if item.ProductID == first {
			removeID = item.ID
		}
	}
	cart, err = svc.RemoveItem(ctx, userID, removeID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, svc.Clear(ctx, userID))
	cart, err = svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
