package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mercadito/marketplace-system/internal/api/handler"
	"github.com/mercadito/marketplace-system/internal/api/middleware"
	"github.com/mercadito/marketplace-system/internal/core/domain"
	"github.com/mercadito/marketplace-system/internal/core/service"
	mongodb "github.com/mercadito/marketplace-system/internal/infrastructure/db/mongo"
	redisdb "github.com/mercadito/marketplace-system/internal/infrastructure/db/redis"
	"github.com/mercadito/marketplace-system/internal/infrastructure/http/handlers"
	"github.com/mercadito/marketplace-system/internal/token"
)

// newEcho builds the Echo instance shared by all services: recovery, request
// ids, request logging, per-service Prometheus metrics, and the central error
// handler.
func newEcho(serviceName string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware(serviceName))

	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// mountHealth registers the liveness and readiness probes. rdb may be nil for
// services that do not use Redis.
func mountHealth(e *echo.Echo, db *mongo.Database, rdb *redis.Client) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
}

// NewAuthRouter wires the auth service: registration, login, and the token
// verification endpoint everyone else delegates to.
func NewAuthRouter(db *mongo.Database, codec *token.Codec, pusher service.ReplicaPusher, log zerolog.Logger) *echo.Echo {
	e := newEcho("auth", log)

	identityRepo := mongodb.NewIdentityRepository(db)
	authService := service.NewAuthService(identityRepo, codec, pusher, log)
	authHandler := handler.NewAuthHandler(authService)

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/me", authHandler.Me)

	mountHealth(e, db, nil)
	return e
}

// NewUsersRouter wires the users service: the replication receiver plus
// admin-only CRUD over the replica store.
func NewUsersRouter(db *mongo.Database, rdb *redis.Client, verifier middleware.IdentityVerifier, log zerolog.Logger) *echo.Echo {
	e := newEcho("users", log)

	replicaRepo := mongodb.NewReplicaRepository(db)
	userService := service.NewUserService(replicaRepo, redisdb.NewSyncMarker(rdb), log)
	userHandler := handler.NewUserHandler(userService)

	// Replication receiver: unauthenticated, reachable only from the auth
	// service on the internal network.
	e.POST("/sync_user", userHandler.Sync)

	adminOnly := e.Group("/users",
		middleware.DelegatedAuth(verifier, "users"),
		middleware.RequireRole("users", domain.RoleAdmin),
	)
	adminOnly.GET("", userHandler.List)
	adminOnly.GET("/:id", userHandler.Get)
	adminOnly.PUT("/:id", userHandler.Update)
	adminOnly.DELETE("/:id", userHandler.Delete)

	mountHealth(e, db, rdb)
	return e
}

// NewProductsRouter wires the products service. Reads are open to both roles,
// writes are admin-only.
func NewProductsRouter(db *mongo.Database, verifier middleware.IdentityVerifier, log zerolog.Logger) *echo.Echo {
	e := newEcho("products", log)

	productRepo := mongodb.NewProductRepository(db)
	productService := service.NewProductService(productRepo, log)
	productHandler := handler.NewProductHandler(productService)

	products := e.Group("/products", middleware.DelegatedAuth(verifier, "products"))

	anyRole := middleware.RequireRole("products", domain.RoleAdmin, domain.RoleClient)
	adminOnly := middleware.RequireRole("products", domain.RoleAdmin)

	products.GET("", productHandler.List, anyRole)
	products.GET("/:id", productHandler.Get, anyRole)
	products.POST("", productHandler.Create, adminOnly)
	products.PUT("/:id", productHandler.Update, adminOnly)
	products.DELETE("/:id", productHandler.Delete, adminOnly)

	mountHealth(e, db, nil)
	return e
}

// NewOrdersRouter wires the orders service. All order routes accept both
// roles; order creation resolves products through the products client.
func NewOrdersRouter(db *mongo.Database, verifier middleware.IdentityVerifier, products service.ProductFetcher, log zerolog.Logger) *echo.Echo {
	e := newEcho("orders", log)

	orderRepo := mongodb.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, products, log)
	orderHandler := handler.NewOrderHandler(orderService)

	orders := e.Group("/orders",
		middleware.DelegatedAuth(verifier, "orders"),
		middleware.RequireRole("orders", domain.RoleAdmin, domain.RoleClient),
	)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("", orderHandler.Create)

	mountHealth(e, db, nil)
	return e
}
