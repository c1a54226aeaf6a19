package main

import (
	"storefront-service/internal/handler"
	"storefront-service/internal/middleware"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting storefront service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Checkout configuration feeds the order handlers
	handler.InitOrderHandler(cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Storefront resolution and the public catalog for a resolved domain
	e.GET("/api/products/by-domain", handler.ResolveProductByDomain)
	public := e.Group("/api/public")
	public.GET("/categories", handler.PublicCategories)
	public.GET("/subcategories", handler.PublicSubCategories)
	public.GET("/brands", handler.PublicBrands)
	public.GET("/items", handler.PublicItems)
	public.GET("/taxes", handler.PublicTaxes)

	// Authentication routes
	auth := e.Group("/api/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Account self-service
	users := api.Group("/users")
	users.GET("/profile", handler.GetProfile)
	users.PATCH("/profile", handler.UpdateProfile)
	users.POST("/change-password", handler.ChangePassword)

	// Customer order flow
	orders := api.Group("/orders")
	orders.POST("", handler.CreateOrder)
	orders.GET("", handler.ListMyOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.PUT("/:id/cancel", handler.CancelOrder)

	// Admin routes - admin or super admin role required
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin)

	// User management - coverage rules apply inside the handlers
	admin.GET("/users", handler.ListUsers)
	admin.POST("/users", handler.CreateUser)
	admin.GET("/users/:id", handler.GetUser)
	admin.PUT("/users/:id", handler.UpdateUser)
	admin.DELETE("/users/:id", handler.DeleteUser)
	admin.PUT("/users/:id/role", handler.UpdateUserRole)
	admin.POST("/users/:id/products", handler.AssignProducts)

	// Product directory - reads for any admin, writes are super admin only
	admin.GET("/products", handler.ListProducts)
	admin.GET("/products/:id", handler.GetProduct)
	superAdmin := admin.Group("/products")
	superAdmin.Use(middleware.RequireSuperAdmin)
	superAdmin.POST("", handler.CreateProduct)
	superAdmin.PUT("/:id", handler.UpdateProduct)
	superAdmin.DELETE("/:id", handler.DeleteProduct)

	// Catalog management
	admin.GET("/categories", handler.ListCategories)
	admin.POST("/categories", handler.CreateCategory)
	admin.PUT("/categories/:id", handler.UpdateCategory)
	admin.DELETE("/categories/:id", handler.DeleteCategory)

	admin.GET("/subcategories", handler.ListSubCategories)
	admin.POST("/subcategories", handler.CreateSubCategory)
	admin.PUT("/subcategories/:id", handler.UpdateSubCategory)
	admin.DELETE("/subcategories/:id", handler.DeleteSubCategory)

	admin.GET("/brands", handler.ListBrands)
	admin.POST("/brands", handler.CreateBrand)
	admin.PUT("/brands/:id", handler.UpdateBrand)
	admin.DELETE("/brands/:id", handler.DeleteBrand)

	admin.GET("/personalities", handler.ListPersonalities)
	admin.POST("/personalities", handler.CreatePersonality)
	admin.DELETE("/personalities/:id", handler.DeletePersonality)

	admin.GET("/items", handler.ListItems)
	admin.POST("/items", handler.CreateItem)
	admin.GET("/items/:id", handler.GetItem)
	admin.PUT("/items/:id", handler.UpdateItem)
	admin.DELETE("/items/:id", handler.DeleteItem)

	admin.GET("/taxes", handler.ListTaxes)
	admin.POST("/taxes", handler.CreateTax)
	admin.PUT("/taxes/:id", handler.UpdateTax)
	admin.DELETE("/taxes/:id", handler.DeleteTax)

	// Order fulfilment
	admin.GET("/orders", handler.ListOrders)
	admin.PUT("/orders/:id/status", handler.UpdateOrderStatus)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
