package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RedisAddr string
	RedisDB   int

	LogLevel  string
	LogFormat string

	// DataDir holds the reference station snapshots and alert fixtures.
	DataDir string

	FetchTimeout time.Duration
	BatchSize    int
	GeoRadiusKm  float64
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("BATCH_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		return nil, errors.New("BATCH_SIZE must be positive")
	}

	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	geoRadius, err := parseFloat("GEO_RADIUS_KM", 50)
	if err != nil {
		return nil, err
	}
	if geoRadius <= 0 {
		return nil, errors.New("GEO_RADIUS_KM must be positive")
	}

	cfg := &Config{
		RedisAddr:    envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisDB:      redisDB,
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),
		DataDir:      envOrDefault("DATA_DIR", "data"),
		FetchTimeout: fetchTimeout,
		BatchSize:    batchSize,
		GeoRadiusKm:  geoRadius,
	}

	if cfg.RedisAddr == "" {
		return nil, errors.New("REDIS_ADDR is required")
	}
	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return f, nil
}
