package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ecomstack/commerce-api/docs"
	"github.com/ecomstack/commerce-api/internal/api/handler"
	"github.com/ecomstack/commerce-api/internal/api/middleware"
	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
	"github.com/ecomstack/commerce-api/internal/core/service"
	mongodb "github.com/ecomstack/commerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ecomstack/commerce-api/internal/infrastructure/db/redis"
	"github.com/ecomstack/commerce-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is constructed by the caller so its worker lifecycle is
// owned by main, not by the router.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens *auth.TokenService, audit ports.AuditSink) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("commerce"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, 0, 0)

	authService := service.NewAuthService(userRepo, tokens, limiter, audit, log)
	orderService := service.NewOrderService(orderRepo, userRepo, productRepo, audit, log)
	productService := service.NewProductService(productRepo, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)

	// Authentication is resolved globally but never rejects; route groups
	// below decide what an anonymous request may reach.
	e.Use(middleware.Authenticate(tokens, userRepo, log))

	v1 := e.Group("/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.DELETE("/auth/me", authHandler.DeleteSelf, middleware.RequireAuth())

	// --- Admin user management ---
	users := v1.Group("/users", middleware.RequireRole(domain.RoleAdmin))
	users.GET("/:id", authHandler.GetUser)
	users.DELETE("/:id", authHandler.DeleteUser)
	users.PATCH("/:id/role", authHandler.ChangeRole)

	// --- Orders (owner-scoped) ---
	orders := v1.Group("/orders", middleware.RequireAuth())
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	// --- Catalog: public reads, admin writes ---
	v1.GET("/products", productHandler.List)
	v1.GET("/products/:id", productHandler.Get)
	adminProducts := v1.Group("/products", middleware.RequireRole(domain.RoleAdmin))
	adminProducts.POST("", productHandler.Create)
	adminProducts.PUT("/:id", productHandler.Update)
	adminProducts.DELETE("/:id", productHandler.Delete)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
