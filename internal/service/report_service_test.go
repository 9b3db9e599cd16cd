package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"intercolor/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	svc      ReportService
	products *stubProductRepo
	orders   *stubOrderRepo
	users    *stubUserRepo
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	users := newStubUserRepo()
	stocks := newStubStockRepo()
	return &reportFixture{
		svc:      NewReportService(products, orders, stocks, users, t.TempDir()),
		products: products,
		orders:   orders,
		users:    users,
	}
}

func TestDashboardAggregates(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	require.NoError(t, f.products.Create(ctx, &model.Product{Name: "A", Status: model.ProductStatusActive, Price: decimal.New(100, 0)}))
	require.NoError(t, f.products.Create(ctx, &model.Product{Name: "B", Status: model.ProductStatusInactive, Price: decimal.New(100, 0)}))

	f.orders.orders[uuid.New()] = &model.Order{Status: model.OrderStatusPending, TotalAmount: decimal.RequireFromString("1000.00"), CreatedAt: time.Now()}
	f.orders.orders[uuid.New()] = &model.Order{Status: model.OrderStatusDelivered, TotalAmount: decimal.RequireFromString("500.00"), CreatedAt: time.Now()}
	// Cancelled orders never count toward revenue.
	f.orders.orders[uuid.New()] = &model.Order{Status: model.OrderStatusCancelled, TotalAmount: decimal.RequireFromString("9999.00"), CreatedAt: time.Now()}

	require.NoError(t, f.users.Create(ctx, &model.User{Email: "c@example.com", Role: model.RoleCustomer}))
	require.NoError(t, f.users.Create(ctx, &model.User{Email: "a@example.com", Role: model.RoleAdmin}))

	stats, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.ActiveProducts)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.Equal(t, "1500.00", stats.RevenueTotal.StringFixed(2))
	assert.Equal(t, "1500.00", stats.RevenueThisMonth.StringFixed(2))
}

func TestInventoryCSVContent(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	blanco := "Blanco"
	require.NoError(t, f.products.Create(ctx, &model.Product{
		Name:       "Latex Interior 4L",
		Color:      &blanco,
		Price:      decimal.RequireFromString("8900.50"),
		Stock:      12,
		Status:     model.ProductStatusActive,
		StockAlert: &model.StockAlert{MinimumStock: 5},
	}))

	data, fileName, err := f.svc.InventoryCSV(ctx)
	require.NoError(t, err)
	assert.Contains(t, fileName, "inventario_")
	assert.Contains(t, fileName, ".csv")

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Producto", "Color", "Precio", "Stock", "Stock Minimo", "Estado"}, records[0])
	assert.Equal(t, []string{"Latex Interior 4L", "Blanco", "8900.50", "12", "5", "active"}, records[1])
}

func TestSalesCSVEmptyWindowStillHasHeader(t *testing.T) {
	f := newReportFixture(t)

	data, fileName, err := f.svc.SalesCSV(context.Background(), "month")
	require.NoError(t, err)
	assert.Contains(t, fileName, "ventas_")

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Periodo", "Pedidos", "Ingresos"}, records[0])
}

func TestInventoryPDFWritesFile(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	require.NoError(t, f.products.Create(ctx, &model.Product{
		Name: "Enduido Plastico 1L", Price: decimal.RequireFromString("3400.00"), Stock: 3, Status: model.ProductStatusActive,
	}))

	result, err := f.svc.InventoryPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pdf", result.Format)

	info, err := os.Stat(result.FilePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRevenueWindowLayouts(t *testing.T) {
	trunc, _, layout := revenueWindow("day")
	assert.Equal(t, "day", trunc)
	assert.Equal(t, "2006-01-02", layout)

	trunc, since, layout := revenueWindow("month")
	assert.Equal(t, "month", trunc)
	assert.Equal(t, "2006-01", layout)
	assert.True(t, since.Before(time.Now().AddDate(0, -11, 0)))

	// Unknown periods fall back to the daily window.
	trunc, _, _ = revenueWindow("decade")
	assert.Equal(t, "day", trunc)
}
