// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for the catalog and weight documents.
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GateConfig provides settings for the shared passphrase gate.
type GateConfig interface {
	GetGatePassphrase() string
	GetGatePassphraseHash() string
	GetGateTokenSecret() string
	GetGateTokenTTL() time.Duration
	IsGateEnabled() bool
}

// StoreConfig selects where the catalog and weight documents live.
type StoreConfig interface {
	GetStoreBackend() string
	GetWeightsFile() string
	GetCatalogFile() string
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// RoofDataConfig provides settings for the GeoAdmin roof data provider.
type RoofDataConfig interface {
	GetRoofDataBaseURL() string
	GetRoofDataTimeout() time.Duration
	GetRoofDataCacheTTL() time.Duration
	GetRoofDataMaxRetries() int
}

// RedisConfig provides the shared Redis connection.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	IsRedisEnabled() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SessionConfig provides settings for pre-check sessions.
type SessionConfig interface {
	GetSessionTTL() time.Duration
}

// ArchiveConfig provides settings for MinIO snapshot archiving of saved documents.
type ArchiveConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketConfigArchive() string
	IsArchiveEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	GatePassphrase           string
	GatePassphraseHash       string
	GateTokenSecret          string
	GateTokenTTL             time.Duration
	StoreBackend             string
	WeightsFile              string
	CatalogFile              string
	DatabaseURL              string
	RoofDataBaseURL          string
	RoofDataTimeout          time.Duration
	RoofDataCacheTTL         time.Duration
	RoofDataMaxRetries       int
	RedisURL                 string
	RedisTLSInsecure         bool
	AsynqQueueName           string
	AsynqConcurrency         int
	SessionTTL               time.Duration
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinioBucketConfigArchive string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GateConfig implementation
func (c *Config) GetGatePassphrase() string       { return c.GatePassphrase }
func (c *Config) GetGatePassphraseHash() string   { return c.GatePassphraseHash }
func (c *Config) GetGateTokenSecret() string      { return c.GateTokenSecret }
func (c *Config) GetGateTokenTTL() time.Duration  { return c.GateTokenTTL }
func (c *Config) IsGateEnabled() bool {
	return c.GatePassphrase != "" || c.GatePassphraseHash != ""
}

// StoreConfig implementation
func (c *Config) GetStoreBackend() string { return c.StoreBackend }
func (c *Config) GetWeightsFile() string  { return c.WeightsFile }
func (c *Config) GetCatalogFile() string  { return c.CatalogFile }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// RoofDataConfig implementation
func (c *Config) GetRoofDataBaseURL() string         { return c.RoofDataBaseURL }
func (c *Config) GetRoofDataTimeout() time.Duration  { return c.RoofDataTimeout }
func (c *Config) GetRoofDataCacheTTL() time.Duration { return c.RoofDataCacheTTL }
func (c *Config) GetRoofDataMaxRetries() int         { return c.RoofDataMaxRetries }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) IsRedisEnabled() bool      { return c.RedisURL != "" }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// SessionConfig implementation
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }

// ArchiveConfig implementation
func (c *Config) GetMinIOEndpoint() string            { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string           { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string           { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketConfigArchive() string { return c.MinioBucketConfigArchive }
func (c *Config) IsArchiveEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinioBucketConfigArchive != ""
}

// Load reads configuration from the environment, after loading a .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		GatePassphrase:           getEnv("GATE_PASSPHRASE", ""),
		GatePassphraseHash:       getEnv("GATE_PASSPHRASE_HASH", ""),
		GateTokenSecret:          getEnv("GATE_TOKEN_SECRET", ""),
		GateTokenTTL:             mustDuration(getEnv("GATE_TOKEN_TTL", "8h")),
		StoreBackend:             strings.ToLower(getEnv("STORE_BACKEND", StoreBackendFile)),
		WeightsFile:              getEnv("WEIGHTS_FILE", "data/weights.json"),
		CatalogFile:              getEnv("CATALOG_FILE", "data/catalog.json"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		RoofDataBaseURL:          getEnv("ROOFDATA_BASE_URL", "https://api3.geo.admin.ch"),
		RoofDataTimeout:          mustDuration(getEnv("ROOFDATA_TIMEOUT", "10s")),
		RoofDataCacheTTL:         mustDuration(getEnv("ROOFDATA_CACHE_TTL", "24h")),
		RoofDataMaxRetries:       mustInt(getEnv("ROOFDATA_MAX_RETRIES", "2")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisTLSInsecure:         strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		SessionTTL:               mustDuration(getEnv("SESSION_TTL", "72h")),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketConfigArchive: getEnv("MINIO_BUCKET_CONFIG_ARCHIVE", "precheck-config-archive"),
	}

	switch cfg.StoreBackend {
	case StoreBackendFile:
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.IsGateEnabled() && cfg.GateTokenSecret == "" {
		return nil, fmt.Errorf("GATE_TOKEN_SECRET is required when a gate passphrase is configured")
	}
	if cfg.GateTokenTTL <= 0 {
		return nil, fmt.Errorf("GATE_TOKEN_TTL must be a positive duration")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
