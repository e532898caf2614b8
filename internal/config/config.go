package config

import (
	"errors"
	"fmt"
	"os"
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
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	AccessTokenTTL     time.Duration
	CORSAllowedOrigins []string

	LogFormat string
	LogLevel  string

	CatalogCacheTTL time.Duration
	CheckoutLockTTL time.Duration
	IdempotencyTTL  time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int

	BodyLimitBytes     int64
	SecurityHeaders    bool
	AsynqConcurrency   int
	TracingEnabled     bool
	TracingEndpoint    string
	TracingSampling    float64
	MetricsBucketsCSV  string
	CatalogDefaultPage int
	CatalogMaxPage     int
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		JWTIssuer:          valueOrDefault(k.String("JWT_ISSUER"), "backend-storefront"),
		JWTAudience:        valueOrDefault(k.String("JWT_AUDIENCE"), "storefront-web"),
		AccessTokenTTL:     parseDuration(k.String("ACCESS_TOKEN_TTL"), "15m"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		CatalogCacheTTL:    parseDuration(k.String("CATALOG_CACHE_TTL"), "60s"),
		CheckoutLockTTL:    parseDuration(k.String("CHECKOUT_LOCK_TTL"), "15s"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		RateLimitWindow:    parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:       parseInt(k.String("RATE_LIMIT_MAX"), 120),
		BodyLimitBytes:     int64(parseInt(k.String("BODY_LIMIT_BYTES"), 1<<20)),
		SecurityHeaders:    parseBoolDefault(k.String("SECURITY_HEADERS"), true),
		AsynqConcurrency:   parseInt(k.String("ASYNQ_CONCURRENCY"), 10),
		TracingEnabled:     parseBool(k.String("TRACING_ENABLED")),
		TracingEndpoint:    strings.TrimSpace(k.String("TRACING_ENDPOINT")),
		TracingSampling:    parseFloat(k.String("TRACING_SAMPLING_RATIO"), 1),
		MetricsBucketsCSV:  k.String("METRICS_BUCKETS_MS"),
		CatalogDefaultPage: parseInt(k.String("CATALOG_DEFAULT_PAGE_SIZE"), 24),
		CatalogMaxPage:     parseInt(k.String("CATALOG_MAX_PAGE_SIZE"), 100),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
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
		return value
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

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var out int
	if _, err := fmt.Sscanf(trimmed, "%d", &out); err != nil {
		return fallback
	}
	return out
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var out float64
	if _, err := fmt.Sscanf(trimmed, "%g", &out); err != nil {
		return fallback
	}
	return out
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseBoolDefault(value string, fallback bool) bool {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return parseBool(value)
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests lets tests override environment variables without leaking
// changes into the real environment.
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
