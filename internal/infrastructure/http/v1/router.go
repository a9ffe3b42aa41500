// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/core/appctx"
	"pharmapos/internal/domain/auth"
	"pharmapos/internal/domain/catalogs/category"
	"pharmapos/internal/domain/catalogs/shelf"
	"pharmapos/internal/domain/catalogs/supplier"
	"pharmapos/internal/domain/inventory"
	"pharmapos/internal/domain/purchases"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/http/v1/handlers"
	"pharmapos/internal/infrastructure/http/v1/middleware"
	"pharmapos/internal/infrastructure/storage/postgres"
	"pharmapos/internal/infrastructure/storage/postgres/catalog_repo"
	"pharmapos/internal/infrastructure/storage/postgres/product_repo"
	"pharmapos/internal/infrastructure/storage/postgres/purchase_repo"
	"pharmapos/internal/infrastructure/storage/postgres/sale_repo"
	"pharmapos/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks and repos).
	Pool *postgres.Pool

	// TxManager coordinates transactions across repositories.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Services share the one TxManager so cross-repo operations (sale +
	// stock debit) commit atomically.
	base := handlers.NewBaseHandler()

	productRepo := product_repo.NewProductRepo(cfg.TxManager)
	inventoryService := inventory.NewService(productRepo, cfg.TxManager)

	saleRepo := sale_repo.NewSaleRepo(cfg.TxManager)
	salesService := sales.NewService(saleRepo, inventoryService, cfg.TxManager)

	purchaseRepo := purchase_repo.NewPurchaseRepo(cfg.TxManager)
	purchaseService := purchases.NewService(purchaseRepo, cfg.TxManager)

	categoryService := category.NewService(catalog_repo.NewCategoryRepo(cfg.TxManager), cfg.TxManager)
	shelfService := shelf.NewService(catalog_repo.NewShelfRepo(cfg.TxManager), cfg.TxManager)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(cfg.TxManager), cfg.TxManager)

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	saleHandler := handlers.NewSaleHandler(base, salesService)
	dueHandler := handlers.NewDueHandler(base, salesService)
	purchaseHandler := handlers.NewPurchaseHandler(base, purchaseService)
	productHandler := handlers.NewProductHandler(base, inventoryService)
	categoryHandler := handlers.NewCategoryHandler(base, categoryService)
	shelfHandler := handlers.NewShelfHandler(base, shelfService)
	supplierHandler := handlers.NewSupplierHandler(base, supplierService)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		// Everything below requires a valid token.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/sales", saleHandler.Create)
		protected.GET("/sales", saleHandler.List)
		protected.GET("/sales/:id", saleHandler.Get)

		protected.GET("/products", productHandler.List)
		protected.GET("/products/search", productHandler.Search)
		protected.GET("/products/:id", productHandler.Get)

		protected.GET("/categories", categoryHandler.List)
		protected.GET("/categories/:id", categoryHandler.Get)
		protected.GET("/shelves", shelfHandler.List)
		protected.GET("/shelves/:id", shelfHandler.Get)
		protected.GET("/suppliers", supplierHandler.List)
		protected.GET("/suppliers/:id", supplierHandler.Get)

		protected.GET("/purchases", purchaseHandler.List)
		protected.GET("/purchases/:id", purchaseHandler.Get)

		// Admin-only: account management, due collection, payables,
		// and catalog mutations.
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(appctx.RoleAdmin))

		admin.POST("/auth/register", authHandler.Register)
		admin.GET("/users", authHandler.ListUsers)

		admin.GET("/dues", dueHandler.ListDues)
		admin.POST("/dues", dueHandler.FlagDue)
		admin.GET("/due-payments", dueHandler.ListDuePayments)
		admin.POST("/due-payments", dueHandler.CreateDuePayment)

		admin.GET("/payments", purchaseHandler.ListPayments)
		admin.POST("/payments", purchaseHandler.CreatePayment)

		admin.POST("/purchases", purchaseHandler.Create)
		admin.PUT("/purchases/:id", purchaseHandler.Update)
		admin.DELETE("/purchases/:id", purchaseHandler.Delete)

		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)
		admin.POST("/products/:id/receive", productHandler.ReceiveStock)

		admin.POST("/categories", categoryHandler.Create)
		admin.PUT("/categories/:id", categoryHandler.Update)
		admin.DELETE("/categories/:id", categoryHandler.Delete)

		admin.POST("/shelves", shelfHandler.Create)
		admin.PUT("/shelves/:id", shelfHandler.Update)
		admin.DELETE("/shelves/:id", shelfHandler.Delete)

		admin.POST("/suppliers", supplierHandler.Create)
		admin.PUT("/suppliers/:id", supplierHandler.Update)
		admin.DELETE("/suppliers/:id", supplierHandler.Delete)
	}

	return router
}
