package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/campusstore/backend/internal/application/audit"
	catalogapp "github.com/campusstore/backend/internal/application/catalog"
	collegeapp "github.com/campusstore/backend/internal/application/college"
	identityapp "github.com/campusstore/backend/internal/application/identity"
	salesapp "github.com/campusstore/backend/internal/application/sales"
	stockapp "github.com/campusstore/backend/internal/application/stock"
	transferapp "github.com/campusstore/backend/internal/application/transfer"
	"github.com/campusstore/backend/internal/infrastructure/config"
	"github.com/campusstore/backend/internal/infrastructure/event"
	"github.com/campusstore/backend/internal/infrastructure/logger"
	"github.com/campusstore/backend/internal/infrastructure/migration"
	"github.com/campusstore/backend/internal/infrastructure/persistence"
	"github.com/campusstore/backend/internal/interfaces/http/handler"
	"github.com/campusstore/backend/internal/interfaces/http/middleware"
	"github.com/campusstore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting campus store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Run pending migrations
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database handle", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Unit of work and event bus
	txScope := persistence.NewGormTransactionScope(db.DB)
	eventBus := event.NewBus(log)

	// Application services
	productService := catalogapp.NewProductService(txScope, log)
	collegeService := collegeapp.NewCollegeService(txScope, log)
	identityService := identityapp.NewIdentityService(txScope, log)
	transactionService := salesapp.NewTransactionService(txScope, log)
	transferService := transferapp.NewTransferService(txScope, log)
	auditService := auditapp.NewAuditService(txScope, log)
	stockQueryService := stockapp.NewStockQueryService(txScope, log)

	productService.SetEventPublisher(eventBus)
	transactionService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	auditService.SetEventPublisher(eventBus)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.NewEngine(log, router.Handlers{
		Products:     handler.NewProductHandler(productService),
		Colleges:     handler.NewCollegeHandler(collegeService),
		Identity:     handler.NewIdentityHandler(identityService),
		Transactions: handler.NewTransactionHandler(transactionService),
		Transfers:    handler.NewTransferHandler(transferService),
		Audits:       handler.NewAuditHandler(auditService),
		Stock:        handler.NewStockHandler(stockQueryService),
		Health:       handler.NewHealthHandler(db.Ping),
	})
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
