package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/destination-weather-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/destination-weather-etl/internal/adapter/kafka"
	"github.com/couchcryptid/destination-weather-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/destination-weather-etl/internal/adapter/objectstore"
	"github.com/couchcryptid/destination-weather-etl/internal/adapter/postgres"
	"github.com/couchcryptid/destination-weather-etl/internal/config"
	"github.com/couchcryptid/destination-weather-etl/internal/domain"
	"github.com/couchcryptid/destination-weather-etl/internal/observability"
	"github.com/couchcryptid/destination-weather-etl/internal/pipeline"
)

const (
	dbMaxConns        = 4
	dbMaxConnLifetime = 30 * time.Minute
)

// readinessChecks is ready when every check passes.
type readinessChecks []sharedobs.ReadinessChecker

func (c readinessChecks) CheckReadiness(ctx context.Context) error {
	for _, check := range c {
		if err := check.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// A missing .env file is fine; the environment is used as is.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to create object store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	logger.Info("object store ready", "backend", cfg.StoreBackend)

	source := objectstore.NewSource(store, objectstore.Keys{
		Coordinates: cfg.CoordinatesKey,
		Forecasts:   cfg.ForecastsKey,
		Hotels:      cfg.HotelsKey,
	})

	scoring := domain.DefaultScoringConfig()
	scoring.TopN = cfg.TopN
	engine, err := domain.NewEngine(scoring)
	if err != nil {
		logger.Error("invalid scoring config", "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		limited := mapbox.NewRateLimitedGeocoder(client, cfg.MapboxRPS, 1)
		geocoder = mapbox.NewCachedGeocoder(limited, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled",
			"cache_size", cfg.MapboxCacheSize,
			"timeout", cfg.MapboxTimeout,
			"rps", cfg.MapboxRPS,
		)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	transformer := pipeline.NewTransformer(engine, geocoder, cfg.OverrideLocations, logger)
	if len(cfg.OverrideLocations) > 0 {
		logger.Info("override selection enabled", "locations", cfg.OverrideLocations)
	}

	loaders := []pipeline.Loader{
		objectstore.NewSelectionWriter(store, cfg.SelectionKey),
		objectstore.NewRankingWriter(store, cfg.RankingKey),
	}

	var warehouse *postgres.Warehouse
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, dbMaxConns, dbMaxConnLifetime)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		warehouse = postgres.NewWarehouse(pool)
		loaders = append(loaders, warehouse)
		logger.Info("postgres warehouse enabled")
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka selection events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(source, transformer, loaders, logger, metrics)

	ready := readinessChecks{p}
	if warehouse != nil {
		ready = append(ready, warehouse)
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ranking pipeline. With no interval the server keeps serving the
	// single run's result until shutdown.
	go func() {
		if err := p.Run(ctx, cfg.RunInterval); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newStore(ctx context.Context, cfg *config.Config) (objectstore.Store, error) {
	if cfg.StoreBackend == config.BackendS3 {
		return objectstore.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
	}
	return objectstore.NewFileStore(cfg.StoreDir), nil
}
