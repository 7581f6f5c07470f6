package main

import (
	"context"
	"fmt"
	"log"
	"myBrandStore/app/echo-server/router"
	"myBrandStore/business/performance"
	"myBrandStore/domain"
	"myBrandStore/internal/middleware"
	"myBrandStore/internal/rest"
	"myBrandStore/pkg/config"
	"myBrandStore/pkg/logger"
	"myBrandStore/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "store", cfg.Store.Backend, "catalog", cfg.Catalog.Mode)

	metrics.Init()
	performance.RegisterMetrics()

	deps, err := newDependencies(cfg)
	if err != nil {
		logger.Fatal("Failed to initialise dependencies", "error", err)
	}

	// Init service
	perfService := performance.NewService(
		deps.metricsRepo,
		deps.telemetry,
		deps.catalog,
		deps.notifier,
		performance.Config{
			Thresholds: domain.PerformanceThresholds{
				MinViews:               cfg.Thresholds.MinViews,
				MinConversionRate:      cfg.Thresholds.MinConversionRate,
				StaleDays:              cfg.Thresholds.StaleDays,
				TopPerformerPercentile: cfg.Thresholds.TopPerformerPercentile,
			},
			VariationsPerProduct: cfg.Catalog.VariationsPerProduct,
			PurgeRemovedMetrics:  cfg.Optimizer.PurgeRemovedMetrics,
			TelemetryTimeout:     cfg.Telemetry.Timeout,
			ReportEmail:          cfg.Optimizer.ReportEmail,
			ReportName:           cfg.Optimizer.ReportName,
		},
	)

	// Init handler
	perfHandler := rest.NewPerformanceHandler(perfService, cfg.Server.RequestTimeout, 2*time.Minute)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.RequestLogger())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupTrackingRoutes(api, perfHandler)
	router.SetupAnalyticsRoutes(api, perfHandler)
	router.SetupAdminRoutes(api, perfHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// let pending telemetry deliveries finish before closing sinks
	perfService.Wait()
	deps.Close()

	logger.Info("Server stopped")
}
