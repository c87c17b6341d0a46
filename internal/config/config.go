package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store backends.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// RunInterval is the re-ranking period; zero runs once.
	RunInterval       time.Duration
	TopN              int
	OverrideLocations []string

	StoreBackend string
	StoreDir     string
	S3Bucket     string
	AWSRegion    string

	CoordinatesKey string
	ForecastsKey   string
	HotelsKey      string
	SelectionKey   string
	RankingKey     string

	DatabaseURL string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
	MapboxRPS       float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	runInterval, err := parseDuration("RUN_INTERVAL", "0s", true)
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	topN, err := parsePositiveInt("TOP_N", 5)
	if err != nil {
		return nil, err
	}

	mapboxRPS, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MAPBOX_RPS", "1"), 64)
	if err != nil || mapboxRPS <= 0 {
		return nil, errors.New("invalid MAPBOX_RPS")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		RunInterval:       runInterval,
		TopN:              topN,
		OverrideLocations: parseList(os.Getenv("OVERRIDE_LOCATIONS")),

		StoreBackend: strings.ToLower(sharedcfg.EnvOrDefault("STORE_BACKEND", BackendFile)),
		StoreDir:     sharedcfg.EnvOrDefault("STORE_DIR", "./data"),
		S3Bucket:     os.Getenv("S3_BUCKET"),
		AWSRegion:    sharedcfg.EnvOrDefault("AWS_REGION", "eu-west-3"),

		CoordinatesKey: sharedcfg.EnvOrDefault("COORDINATES_KEY", "raw/weather/nominatim_cities.json"),
		ForecastsKey:   sharedcfg.EnvOrDefault("FORECASTS_KEY", "raw/weather/openweather_data.json"),
		HotelsKey:      envOrDefaultAllowEmpty("HOTELS_KEY", "raw/hotels/booking_hotels_raw.csv"),
		SelectionKey:   sharedcfg.EnvOrDefault("SELECTION_KEY", "processed/weather/top_5_cities.csv"),
		RankingKey:     sharedcfg.EnvOrDefault("RANKING_KEY", "processed/weather/ranking.json"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "destination-selections"),
		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
		MapboxRPS:       mapboxRPS,
	}

	switch cfg.StoreBackend {
	case BackendFile:
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET is required when STORE_BACKEND is s3")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parseDuration(key, fallback string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// envOrDefaultAllowEmpty treats a variable set to "" as an explicit value.
func envOrDefaultAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
