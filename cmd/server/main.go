package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutriview/backend/config"
	"github.com/nutriview/backend/internal/catalog"
	httpDelivery "github.com/nutriview/backend/internal/delivery/http"
	"github.com/nutriview/backend/internal/domain"
	"github.com/nutriview/backend/internal/infrastructure/cache"
	"github.com/nutriview/backend/internal/infrastructure/imagesearch"
	"github.com/nutriview/backend/internal/infrastructure/metrics"
	"github.com/nutriview/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting NutriView backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
	)

	// Load catalogs; these are the only failures that abort startup
	nutrition, err := catalog.LoadNutrition(cfg.Catalog.NutritionFile)
	if err != nil {
		logger.Error("failed to load nutrition catalog", "path", cfg.Catalog.NutritionFile, "error", err)
		os.Exit(1)
	}
	rows, err := catalog.LoadTabular(cfg.Catalog.RecommendationsFile)
	if err != nil {
		logger.Error("failed to load recommendation catalog", "path", cfg.Catalog.RecommendationsFile, "error", err)
		os.Exit(1)
	}
	logger.Info("catalogs loaded", "foods", nutrition.Len(), "recommendation_rows", len(rows))

	// Initialize infrastructure dependencies
	imageCache, closeCache, err := newCache(cfg)
	if err != nil {
		logger.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	imageClient := imagesearch.NewClient(imagesearch.Config{
		SearchBaseURL:     cfg.Images.SearchBaseURL,
		ScrapeBaseURL:     cfg.Images.ScrapeBaseURL,
		UserAgent:         cfg.Images.UserAgent,
		Timeout:           cfg.Images.Timeout,
		RequestsPerSecond: cfg.Images.RequestsPerSecond,
		Burst:             cfg.Images.Burst,

		AllowPrivateNetworks: cfg.Images.AllowPrivateNetworks,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		imageClient.SetDebug(true)
		logger.Debug("image client debug mode enabled")
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize usecase layer
	resolver := usecase.NewImageResolver(nutrition, imageClient, imageCache, usecase.ImageResolverConfig{
		PlaceholderURL: cfg.Images.PlaceholderURL,
		CacheTTL:       cfg.Cache.TTL,
		Random:         usecase.NewLockedRandom(time.Now().UnixNano()),
		Logger:         logger,
		Metrics:        appMetrics,
	})

	nutritionService := usecase.NewNutritionService(nutrition, resolver, usecase.NutritionServiceConfig{
		Logger: logger,
	})

	recommendationService := usecase.NewRecommendationService(rows, resolver, usecase.RecommendationServiceConfig{
		DefaultLimit: cfg.Recommendation.DefaultLimit,
		MaxLimit:     cfg.Recommendation.MaxLimit,
		Parallelism:  cfg.Recommendation.Parallelism,
		Logger:       logger,
		Metrics:      appMetrics,
	})

	pageInspector := usecase.NewPageInspector(imageClient, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(nutritionService, recommendationService, pageInspector, httpDelivery.HandlerConfig{
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		Logger:         logger,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// newLogger returns a JSON logger in production and a text logger otherwise
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newCache builds the configured image cache and its closer
func newCache(cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil
	default:
		mc := cache.NewMemoryCache(cfg.Cache.MaxEntries)
		return mc, func() { mc.Close() }, nil
	}
}
