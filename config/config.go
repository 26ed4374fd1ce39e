package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	DatabaseURL   string
	StorageDriver string
	JWTSecretKey  string
	JWTTTL        time.Duration
	ServerPort    int
	LogLevel      slog.Level

	AllowedOrigins    []string
	ReconcileInterval time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// UploadDir and PublicURL configure local photo storage when R2 is not configured.
	UploadDir string
	PublicURL string
}

// R2Enabled reports whether every R2 setting is present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func (c *Config) r2Partial() bool {
	set := 0
	for _, v := range []string{c.R2AccountID, c.R2AccessKeyID, c.R2SecretAccessKey, c.R2BucketName, c.R2PublicBaseURL} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 5
}

// Load reads configuration from the environment. A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StorageDriver:     getEnvOrDefault("STORAGE_DRIVER", StorageDriverPostgres),
		JWTSecretKey:      os.Getenv("JWT_SECRET_KEY"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "./uploads"),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL environment variable is not set")
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, cfg.StorageDriver)
	}

	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if cfg.JWTTTL, err = time.ParseDuration(getEnvOrDefault("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL environment variable: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(getEnvOrDefault("RECONCILE_INTERVAL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_INTERVAL environment variable: %w", err)
	}
	if cfg.ReconcileInterval < 0 {
		return nil, fmt.Errorf("RECONCILE_INTERVAL must not be negative, got %s", cfg.ReconcileInterval)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	cfg.AllowedOrigins = splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))
	cfg.PublicURL = getEnvOrDefault("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", cfg.ServerPort))

	if cfg.r2Partial() {
		return nil, errors.New("incomplete Cloudflare R2 configuration: set all R2_* variables or none")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
