package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"intercolor/internal/dto"
	"intercolor/internal/infra"
	"intercolor/internal/model"
	"intercolor/internal/repository"
)

// ReportService builds the admin dashboard numbers and the downloadable
// inventory and sales reports (CSV and PDF).
type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardStats, error)
	// Revenue buckets non-cancelled order totals by period: "day" covers the
	// last 30 days, "week" the last 12 weeks, "month" the last 12 months.
	Revenue(ctx context.Context, period string) ([]dto.RevenuePoint, error)
	TopProducts(ctx context.Context, limit int) ([]dto.TopProduct, error)
	InventoryCSV(ctx context.Context) ([]byte, string, error)
	InventoryPDF(ctx context.Context) (*dto.ReportExportResult, error)
	SalesCSV(ctx context.Context, period string) ([]byte, string, error)
	SalesPDF(ctx context.Context, period string) (*dto.ReportExportResult, error)
}

type reportService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	stockRepo   repository.StockRepository
	userRepo    repository.UserRepository
	storagePath string
}

func NewReportService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, stockRepo repository.StockRepository, userRepo repository.UserRepository, storagePath string) ReportService {
	return &reportService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		userRepo:    userRepo,
		storagePath: storagePath,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{}
	var err error

	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveProducts, err = s.productRepo.CountByStatus(ctx, model.ProductStatusActive); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orderRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = s.orderRepo.CountByStatus(ctx, model.OrderStatusPending); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.userRepo.CountByRole(ctx, model.RoleCustomer); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.stockRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if stats.RevenueTotal, err = s.orderRepo.RevenueSince(ctx, nil); err != nil {
		return nil, err
	}
	monthStart := time.Now().AddDate(0, 0, -30)
	if stats.RevenueThisMonth, err = s.orderRepo.RevenueSince(ctx, &monthStart); err != nil {
		return nil, err
	}
	return stats, nil
}

func revenueWindow(period string) (trunc string, since time.Time, layout string) {
	now := time.Now()
	switch period {
	case "week":
		return "week", now.AddDate(0, 0, -12*7), "2006-01-02"
	case "month":
		return "month", now.AddDate(0, -12, 0), "2006-01"
	default:
		return "day", now.AddDate(0, 0, -30), "2006-01-02"
	}
}

func (s *reportService) Revenue(ctx context.Context, period string) ([]dto.RevenuePoint, error) {
	trunc, since, layout := revenueWindow(period)

	rows, err := s.orderRepo.RevenueByPeriod(ctx, trunc, since)
	if err != nil {
		return nil, err
	}

	points := make([]dto.RevenuePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.RevenuePoint{
			Period:  row.Period.Format(layout),
			Orders:  row.Orders,
			Revenue: row.Revenue,
		})
	}
	return points, nil
}

func (s *reportService) TopProducts(ctx context.Context, limit int) ([]dto.TopProduct, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	since := time.Now().AddDate(0, -12, 0)

	rows, err := s.orderRepo.TopProducts(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			UnitsSold: row.UnitsSold,
			Revenue:   row.Revenue,
		})
	}
	return out, nil
}

func (s *reportService) inventoryRows(ctx context.Context) ([][]string, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		minStock := ""
		if p.StockAlert != nil {
			minStock = strconv.Itoa(p.StockAlert.MinimumStock)
		}
		color := ""
		if p.Color != nil {
			color = *p.Color
		}
		rows = append(rows, []string{
			p.Name,
			color,
			p.Price.StringFixed(2),
			strconv.Itoa(p.Stock),
			minStock,
			p.Status,
		})
	}
	return rows, nil
}

var inventoryHeaders = []string{"Producto", "Color", "Precio", "Stock", "Stock Minimo", "Estado"}

func (s *reportService) InventoryCSV(ctx context.Context) ([]byte, string, error) {
	rows, err := s.inventoryRows(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(inventoryHeaders); err != nil {
		return nil, "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}
	fileName := fmt.Sprintf("inventario_%s.csv", time.Now().Format("20060102"))
	return buf.Bytes(), fileName, nil
}

func (s *reportService) InventoryPDF(ctx context.Context) (*dto.ReportExportResult, error) {
	rows, err := s.inventoryRows(ctx)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("inventario_%s.pdf", time.Now().Format("20060102"))
	filePath, err := infra.GenerateReportPDF(infra.ReportTable{
		Title:   "Reporte de Inventario",
		Headers: inventoryHeaders,
		Widths:  []float64{4, 2, 1.5, 1, 1.5, 1.5},
		Rows:    rows,
	}, s.storagePath, fileName)
	if err != nil {
		return nil, err
	}
	return &dto.ReportExportResult{FilePath: filePath, FileName: fileName, Format: "pdf"}, nil
}

var salesHeaders = []string{"Periodo", "Pedidos", "Ingresos"}

func (s *reportService) salesRows(ctx context.Context, period string) ([][]string, error) {
	points, err := s.Revenue(ctx, period)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Period,
			strconv.FormatInt(p.Orders, 10),
			p.Revenue.StringFixed(2),
		})
	}
	return rows, nil
}

func (s *reportService) SalesCSV(ctx context.Context, period string) ([]byte, string, error) {
	rows, err := s.salesRows(ctx, period)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(salesHeaders); err != nil {
		return nil, "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}
	fileName := fmt.Sprintf("ventas_%s.csv", time.Now().Format("20060102"))
	return buf.Bytes(), fileName, nil
}

func (s *reportService) SalesPDF(ctx context.Context, period string) (*dto.ReportExportResult, error) {
	rows, err := s.salesRows(ctx, period)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("ventas_%s.pdf", time.Now().Format("20060102"))
	filePath, err := infra.GenerateReportPDF(infra.ReportTable{
		Title:   "Reporte de Ventas",
		Headers: salesHeaders,
		Widths:  []float64{2, 1, 1.5},
		Rows:    rows,
	}, s.storagePath, fileName)
	if err != nil {
		return nil, err
	}
	return &dto.ReportExportResult{FilePath: filePath, FileName: fileName, Format: "pdf"}, nil
}
