package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string
	CatalogCacheTTL    time.Duration
	IdempotencyTTL     time.Duration
	OrderRateLimit     string
	HandoffURLBase     string
	MigrateOnStart     bool
	ShutdownTimeout    time.Duration
	HSTSMaxAge         int

	Obs ObsConfig
}

// ObsConfig controls logging, metrics and tracing.
type ObsConfig struct {
	LogFormat            string
	LogLevel             string
	EnablePrometheus     bool
	MetricsNamespace     string
	HTTPBucketsMS        string
	EnableTracing        bool
	TracingExporter      string
	OTLPEndpoint         string
	TracingSamplingRatio float64
	HealthDBTimeout      time.Duration
	HealthRedisTimeout   time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        strings.TrimSpace(k.String("DATABASE_URL")),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CatalogCacheTTL:    parseDuration(k.String("CATALOG_CACHE_TTL"), "60s"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
		OrderRateLimit:     valueOrDefault(k.String("ORDER_RATE_LIMIT"), "10-M"),
		HandoffURLBase:     strings.TrimSpace(k.String("HANDOFF_URL_BASE")),
		MigrateOnStart:     parseBool(k.String("MIGRATE_ON_START"), false),
		ShutdownTimeout:    parseDuration(k.String("SHUTDOWN_TIMEOUT"), "10s"),
		HSTSMaxAge:         parseInt(k.String("SECURITY_HSTS_MAX_AGE"), 0),
		Obs: ObsConfig{
			LogFormat:            valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
			LogLevel:             valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			EnablePrometheus:     parseBool(k.String("OBS_ENABLE_PROMETHEUS"), true),
			MetricsNamespace:     valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "frozen"),
			HTTPBucketsMS:        strings.TrimSpace(k.String("OBS_HTTP_BUCKETS_MS")),
			EnableTracing:        parseBool(k.String("OBS_ENABLE_TRACING"), false),
			TracingExporter:      valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp"),
			OTLPEndpoint:         strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			TracingSamplingRatio: parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
			HealthDBTimeout:      parseDuration(k.String("HEALTH_READY_DB_TIMEOUT"), "500ms"),
			HealthRedisTimeout:   parseDuration(k.String("HEALTH_READY_REDIS_TIMEOUT"), "300ms"),
		},
	}

	if cfg.MigrateOnStart && cfg.DatabaseURL == "" {
		return nil, errors.New("MIGRATE_ON_START requires DATABASE_URL")
	}
	if cfg.Obs.TracingSamplingRatio <= 0 || cfg.Obs.TracingSamplingRatio > 1 {
		return nil, fmt.Errorf("OBS_TRACING_SAMPLING_RATIO must be in (0,1], got %v", cfg.Obs.TracingSamplingRatio)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// AllowedOrigins falls back to any origin when none are configured.
func (c *Config) AllowedOrigins() []string {
	if len(c.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.CORSAllowedOrigins
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseFloat(value string, fallback float64) float64 {
	if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return parsed
	}
	return fallback
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return parsed
	}
	return fallback
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
