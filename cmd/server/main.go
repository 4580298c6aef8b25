package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appinv "github.com/dokanify/backend/internal/application/inventory"
	"github.com/dokanify/backend/internal/application/shipping"
	"github.com/dokanify/backend/internal/infrastructure/config"
	"github.com/dokanify/backend/internal/infrastructure/delivery"
	"github.com/dokanify/backend/internal/infrastructure/logger"
	"github.com/dokanify/backend/internal/infrastructure/persistence"
	"github.com/dokanify/backend/internal/interfaces/http/handler"
	"github.com/dokanify/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Dokanify Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	tokenRepo := persistence.NewGormCourierTokenRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	reservations := appinv.NewReservationCoordinator(txScope, log)
	stockService := appinv.NewStockService(txScope, log)

	// Courier adapters. Pathao calls go through a token manager that caches
	// bearer tokens in the courier_tokens table.
	pathaoCfg := delivery.PathaoConfig{
		BaseURL:      cfg.Courier.Pathao.BaseURL,
		ClientID:     cfg.Courier.Pathao.ClientID,
		ClientSecret: cfg.Courier.Pathao.ClientSecret,
		Username:     cfg.Courier.Pathao.Username,
		Password:     cfg.Courier.Pathao.Password,
		StoreID:      cfg.Courier.Pathao.StoreID,
		Timeout:      cfg.Courier.RequestTimeout,
	}
	pathaoTokens := delivery.NewPathaoTokenManager(pathaoCfg, tokenRepo, log)

	registry := delivery.NewRegistry(
		delivery.NewSteadfastAdapter(delivery.SteadfastConfig{
			BaseURL:   cfg.Courier.Steadfast.BaseURL,
			APIKey:    cfg.Courier.Steadfast.APIKey,
			SecretKey: cfg.Courier.Steadfast.SecretKey,
			Timeout:   cfg.Courier.RequestTimeout,
		}),
		delivery.NewRedXAdapter(delivery.RedXConfig{
			BaseURL: cfg.Courier.RedX.BaseURL,
			APIKey:  cfg.Courier.RedX.APIKey,
			Timeout: cfg.Courier.RequestTimeout,
		}),
		delivery.NewPathaoAdapter(pathaoCfg, pathaoTokens),
		delivery.NewCarryBeeAdapter(),
	)

	shipments := shipping.NewShipmentOrchestrator(orderRepo, registry, log)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(reservations, shipments)
	inventoryHandler := handler.NewInventoryHandler(stockService)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router.NewRouter(engine, db).
		Register(orderHandler).
		Register(inventoryHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
