package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/arap_ledger/internal/app"
	"github.com/SscSPs/arap_ledger/internal/handlers"
	"github.com/SscSPs/arap_ledger/internal/middleware"
	"github.com/SscSPs/arap_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// @title AR/AP Ledger API
// @version 1.0
// @description Debtor and creditor balances, payments and outstanding totals.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	application, err := app.New(context.Background(), cfg, logger, true)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, application.Services); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("store_driver", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		application.Close()
		os.Exit(1)
	}
}
