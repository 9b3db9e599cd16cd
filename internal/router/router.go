package router

import (
	"time"

	"intercolor/internal/config"
	"intercolor/internal/handler"
	"intercolor/internal/middleware"
	"intercolor/internal/model"
	"intercolor/internal/repository"
	"intercolor/internal/service"
	"intercolor/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics())
	r.Use(middleware.GlobalRateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb, cfg.AlertEmail)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	productSvc := service.NewProductService(productRepo, rdb)
	categorySvc := service.NewCategoryService(db, categoryRepo)
	stockSvc := service.NewStockService(db, productRepo, stockRepo, dispatcher)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(db, orderRepo, cartRepo, productRepo, stockSvc)
	reportSvc := service.NewReportService(productRepo, orderRepo, stockRepo, userRepo, cfg.ReportStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	categoriesH := handler.NewCategoryHandler(categorySvc)
	stockH := handler.NewStockHandler(stockSvc)
	cartH := handler.NewCartHandler(cartSvc)
	ordersH := handler.NewOrderHandler(orderSvc)
	reportsH := handler.NewReportHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", healthH.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Auth (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Public catalog — no auth required
	api.GET("/products", productsH.ListPublic)
	api.GET("/products/featured", productsH.Featured)
	api.GET("/products/:id", productsH.GetPublic)
	api.GET("/categories/tree", categoriesH.Tree)
	api.GET("/categories/slug/:slug", categoriesH.GetBySlug)

	// Authenticated routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	authed := api.Group("", jwtMW)
	{
		authed.GET("/auth/me", authH.Profile)

		cart := authed.Group("/cart")
		{
			cart.GET("", cartH.Get)
			cart.POST("/add", cartH.Add)
			cart.PUT("/items/:id", cartH.UpdateItem)
			cart.DELETE("/items/:id", cartH.RemoveItem)
			cart.DELETE("/clear", cartH.Clear)
		}

		orders := authed.Group("/orders")
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.ListMine)
			orders.GET("/:id", ordersH.Get)
			orders.GET("/:id/history", ordersH.StatusHistory)
		}
	}

	// Admin routes
	admin := api.Group("/admin", jwtMW, middleware.RequireRole(model.RoleAdmin))
	{
		products := admin.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		stock := admin.Group("/stock")
		{
			stock.POST("/products/:id/adjust", stockH.Adjust)
			stock.POST("/products/:id/alert", stockH.SetAlert)
			stock.GET("/products/:id/history", stockH.History)
			stock.GET("/products/:id/rotation", stockH.Rotation)
			stock.GET("/history", stockH.History)
			stock.GET("/low-stock", stockH.LowStock)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", categoriesH.Create)
			categories.GET("", categoriesH.List)
			categories.GET("/:id", categoriesH.Get)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
			categories.PUT("/reorder", categoriesH.Reorder)
			categories.PATCH("/:id/toggle", categoriesH.ToggleActive)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.PUT("/:id/status", ordersH.UpdateStatus)
			orders.GET("/:id/history", ordersH.StatusHistory)
		}

		reports := admin.Group("/reports")
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/revenue", reportsH.Revenue)
			reports.GET("/top-products", reportsH.TopProducts)
			reports.GET("/inventory/export", reportsH.InventoryExport)
			reports.GET("/sales/export", reportsH.SalesExport)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
