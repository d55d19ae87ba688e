package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/masala/backend/docs"
	appinventory "github.com/masala/backend/internal/application/inventory"
	apporder "github.com/masala/backend/internal/application/order"
	"github.com/masala/backend/internal/domain/shared"
	"github.com/masala/backend/internal/infrastructure/auth"
	"github.com/masala/backend/internal/infrastructure/cache"
	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/masala/backend/internal/infrastructure/event"
	"github.com/masala/backend/internal/infrastructure/logger"
	"github.com/masala/backend/internal/infrastructure/migration"
	"github.com/masala/backend/internal/infrastructure/persistence"
	"github.com/masala/backend/internal/infrastructure/telemetry"
	"github.com/masala/backend/internal/interfaces/http/handler"
	"github.com/masala/backend/internal/interfaces/http/middleware"
	"github.com/masala/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Masala Order Allocation API
//	@version		1.0
//	@description	Orders, batch allocation and stock batches for a spice shop

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	level, _ := logger.ParseLevel(cfg.Log.Level)
	log := providers.Logs.Bridge(baseLog, level)
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			baseLog.Error("Error shutting down telemetry", zap.Error(err))
		}
		_ = log.Sync()
	}()

	log.Info("Starting Masala backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", telemetry.ServiceVersion),
	)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	if err := runMigrations(db, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	repos := db.Repositories()

	idempotency, err := cache.NewIdempotencyStore(ctx, cfg.Redis, cfg.App.Env != "production", log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotency.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewAllocationMetrics(providers.Meter.Meter("masala/allocation"))
	if err != nil {
		log.Fatal("Failed to create allocation metrics", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)

	orderService := apporder.NewOrderService(repos.Orders, repos.Allocations, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetIdempotencyStore(idempotency, cfg.Allocation.IdempotencyTTL)
	orderService.SetTolerance(cfg.Allocation.Tolerance)
	orderService.SetMetrics(metrics)

	inventoryService := appinventory.NewInventoryService(repos.StockBatches, log)
	inventoryService.SetEventPublisher(eventBus)

	// Delivered orders consume stock; redelivered events are ignored by event ID
	deliveredHandler := appinventory.NewOrderDeliveredHandler(repos.Allocations, repos.StockBatches, log).
		WithEventPublisher(eventBus).
		WithMetrics(metrics)
	eventBus.Subscribe(event.NewIdempotentHandler(deliveredHandler, idempotency, shared.IdempotencyConfig{
		TTL:     cfg.Allocation.IdempotencyTTL,
		Enabled: true,
	}, log))
	log.Info("Event handlers registered", zap.Strings("order_delivered_events", deliveredHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	limiter := middleware.NewIPRateLimiter(middleware.RateLimitConfig{
		Requests: cfg.HTTP.RateLimitRequests,
		Window:   cfg.HTTP.RateLimitWindow,
	})
	if cfg.HTTP.RateLimitEnabled {
		go limiter.RunCleanup(limiterCtx, time.Minute)
	}

	engine := router.NewEngine(router.EngineConfig{
		Config: cfg,
		Logger: log,
		JWT:    auth.NewJWTService(cfg.JWT),
		Handlers: router.Handlers{
			Orders:    handler.NewOrderHandler(orderService),
			Inventory: handler.NewInventoryHandler(inventoryService),
			Health:    handler.NewHealthHandler(db),
		},
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded schema migrations before serving
func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, "", log)
	if err != nil {
		return err
	}
	return m.Up()
}
