package router

import (
	"github.com/gin-gonic/gin"
	"github.com/masala/backend/internal/infrastructure/auth"
	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/masala/backend/internal/infrastructure/logger"
	"github.com/masala/backend/internal/interfaces/http/handler"
	"github.com/masala/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served by the engine
type Handlers struct {
	Orders    *handler.OrderHandler
	Inventory *handler.InventoryHandler
	Health    *handler.HealthHandler
}

// EngineConfig holds everything NewEngine wires together
type EngineConfig struct {
	Config   *config.Config
	Logger   *zap.Logger
	JWT      *auth.JWTService
	Handlers Handlers
	// RateLimiter is used when cfg.HTTP.RateLimitEnabled; nil builds one from config
	RateLimiter *middleware.IPRateLimiter
}

// NewEngine builds the gin engine. Middleware order:
// request ID, recovery, tracing, access log, security headers, CORS, body
// limit, rate limit, then JWT on the API group only.
func NewEngine(ec EngineConfig) *gin.Engine {
	cfg, log := ec.Config, ec.Logger

	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := ec.RateLimiter
		if limiter == nil {
			limiter = middleware.NewIPRateLimiter(middleware.RateLimitConfig{
				Requests: cfg.HTTP.RateLimitRequests,
				Window:   cfg.HTTP.RateLimitWindow,
			})
		}
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", ec.Handlers.Health.Health)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := NewRouter(engine)
	r.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: ec.JWT,
		Required:   cfg.JWT.Required,
		Logger:     log,
	}))
	r.Use(middleware.SpanEnricher())
	r.Register(OrderRoutes(ec.Handlers.Orders)).
		Register(InventoryRoutes(ec.Handlers.Inventory))
	r.Setup()

	return engine
}

// OrderRoutes mounts order, allocation and status routes under /orders
func OrderRoutes(h *handler.OrderHandler) *DomainGroup {
	return NewDomainGroup("orders", "/orders").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		GET("/:id/allocations", h.ListAllocations).
		POST("/:id/allocations", h.SaveAllocations).
		PUT("/:id/status", h.TransitionStatus).
		GET("/:id/status-history", h.StatusHistory)
}

// InventoryRoutes mounts stock batch routes under /inventory
func InventoryRoutes(h *handler.InventoryHandler) *DomainGroup {
	return NewDomainGroup("inventory", "/inventory").
		GET("/product/:productId/batches", h.ListProductBatches).
		POST("/batches", h.ReceiveBatch)
}
