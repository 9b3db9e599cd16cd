package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts    int64           `json:"total_products"`
	ActiveProducts   int64           `json:"active_products"`
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	TotalCustomers   int64           `json:"total_customers"`
	LowStockCount    int64           `json:"low_stock_count"`
	RevenueTotal     decimal.Decimal `json:"revenue_total"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
}

type RevenuePoint struct {
	Period  string          `json:"period"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ReportExportResult points at a generated report file on disk.
type ReportExportResult struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	Format   string `json:"format"`
}
