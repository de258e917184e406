package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expirylens/backend/config"
	httpDelivery "github.com/expirylens/backend/internal/delivery/http"
	"github.com/expirylens/backend/internal/domain"
	"github.com/expirylens/backend/internal/infrastructure/cache"
	"github.com/expirylens/backend/internal/infrastructure/dateparse"
	"github.com/expirylens/backend/internal/infrastructure/exif"
	"github.com/expirylens/backend/internal/infrastructure/metrics"
	"github.com/expirylens/backend/internal/infrastructure/vision"
	"github.com/expirylens/backend/internal/usecase"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogging()

	log := logrus.WithField("component", "main")
	log.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cache":       cfg.Cache.Type,
		"cache_ttl":   cfg.Cache.TTL.String(),
	}).Info("Starting ExpiryLens Backend v1.0.0")

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	defer memoryCache.Close()

	prom := metrics.NewPrometheus()

	var recognizer domain.TextRecognizer
	if cfg.Vision.APIKey != "" {
		visionClient := vision.NewClient(cfg.Vision.APIKey, cfg.Vision.BaseURL, cfg.Vision.RequestsPerMinute)

		// Enable debug mode in development environment
		if cfg.Server.Environment == "development" {
			visionClient.SetDebug(true)
		}

		recognizer = visionClient
		log.Infof("Vision API configured: %s (%d req/min)", cfg.Vision.BaseURL, cfg.Vision.RequestsPerMinute)
	} else {
		log.Warn("Vision API key not configured, image detection disabled")
	}

	// Initialize usecase layer
	detector := usecase.NewExpiryDetector(dateparse.NewParser(), usecase.DetectorConfig{
		YearFilterLow:      cfg.Expiry.YearFilterLow,
		YearFilterHigh:     cfg.Expiry.YearFilterHigh,
		YearFirstWindow:    cfg.Expiry.YearFirstWindow,
		EnableDebugLogging: cfg.Expiry.EnableDebugLogging,
	})

	expiryService := usecase.NewExpiryService(
		detector,
		memoryCache,
		recognizer,
		exif.NewReader(),
		prom,
		usecase.ExpiryServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Expiry.EnableDebugLogging,
		},
	)

	log.Infof("Expiry: year filter -%d/+%d, year-first window ±%d, debug=%v",
		cfg.Expiry.YearFilterLow,
		cfg.Expiry.YearFilterHigh,
		cfg.Expiry.YearFirstWindow,
		cfg.Expiry.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(expiryService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, prom.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}
