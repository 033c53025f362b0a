package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/watzon/inkify/pkg/classify"
	"github.com/watzon/inkify/pkg/observability"
	"github.com/watzon/inkify/pkg/resolve"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Classifier    ClassifierConfig
	Render        RenderConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
	Analytics     AnalyticsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// ClassifierConfig holds language classifier settings
type ClassifierConfig struct {
	// ModelPath points at a YAML model file. Empty means the embedded
	// default model.
	ModelPath       string
	ConfidenceFloor float64
	MaxInputBytes   int
}

// RenderConfig holds rendering defaults and limits
type RenderConfig struct {
	DefaultTheme string
	DefaultFont  string
	// MaxCodeBytes caps the code parameter; 0 disables the cap.
	MaxCodeBytes int
	// FetchCacheSize is the LRU entry count for background images.
	FetchCacheSize int
	// FetchMaxBytes caps a fetched background image.
	FetchMaxBytes int64
}

// RateLimitConfig holds rate limiter settings for /generate
type RateLimitConfig struct {
	// RedisURL enables the distributed limiter when set.
	RedisURL          string
	RequestsPerMinute int
	Burst             int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// AnalyticsConfig holds optional Umami reporting settings
type AnalyticsConfig struct {
	UmamiURL       string
	UmamiWebsiteID string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("INKIFY_HOST", "0.0.0.0"),
			Port:            getEnv("INKIFY_PORT", "8080"),
			ReadTimeout:     getEnvDuration("INKIFY_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("INKIFY_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("INKIFY_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("INKIFY_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("INKIFY_HEALTH_PORT", "9090"),
		},
		Classifier: ClassifierConfig{
			ModelPath:       getEnv("INKIFY_MODEL_PATH", ""),
			ConfidenceFloor: getEnvFloat("INKIFY_CONFIDENCE_FLOOR", classify.DefaultConfidenceFloor),
			MaxInputBytes:   getEnvInt("INKIFY_MAX_CLASSIFY_BYTES", classify.DefaultMaxInputBytes),
		},
		Render: RenderConfig{
			DefaultTheme:   getEnv("INKIFY_DEFAULT_THEME", resolve.DefaultTheme),
			DefaultFont:    getEnv("INKIFY_DEFAULT_FONT", resolve.DefaultFont),
			MaxCodeBytes:   getEnvInt("INKIFY_MAX_CODE_BYTES", 256*1024),
			FetchCacheSize: getEnvInt("INKIFY_FETCH_CACHE_SIZE", 64),
			FetchMaxBytes:  int64(getEnvInt("INKIFY_FETCH_MAX_BYTES", 8*1024*1024)),
		},
		RateLimit: RateLimitConfig{
			RedisURL:          getEnv("INKIFY_REDIS_URL", ""),
			RequestsPerMinute: getEnvInt("INKIFY_RATE_LIMIT_PER_MINUTE", 60),
			Burst:             getEnvInt("INKIFY_RATE_LIMIT_BURST", 10),
		},
		Observability: ObservabilityConfig{
			LogLevel:           parseLogLevel(getEnv("INKIFY_LOG_LEVEL", "info")),
			MetricsEnabled:     getEnvBool("INKIFY_METRICS_ENABLED", true),
			OTelEnabled:        getEnvBool("INKIFY_OTEL_ENABLED", false),
			OTelEndpoint:       getEnv("INKIFY_OTEL_ENDPOINT", "localhost:4317"),
			OTelServiceName:    getEnv("INKIFY_OTEL_SERVICE_NAME", "inkify"),
			OTelServiceVersion: getEnv("INKIFY_OTEL_SERVICE_VERSION", "1.0.0"),
			OTelInsecure:       getEnvBool("INKIFY_OTEL_INSECURE", true),
		},
		Analytics: AnalyticsConfig{
			UmamiURL:       getEnv("INKIFY_UMAMI_URL", ""),
			UmamiWebsiteID: getEnv("INKIFY_UMAMI_WEBSITE_ID", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Classifier.ConfidenceFloor < 0 || c.Classifier.ConfidenceFloor > 1 {
		return fmt.Errorf("confidence floor must be in [0, 1], got %g", c.Classifier.ConfidenceFloor)
	}
	if c.Classifier.MaxInputBytes <= 0 {
		return fmt.Errorf("max classify bytes must be positive, got %d", c.Classifier.MaxInputBytes)
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimit.RequestsPerMinute)
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// AnalyticsEnabled reports whether Umami reporting is fully configured.
func (c *Config) AnalyticsEnabled() bool {
	return c.Analytics.UmamiURL != "" && c.Analytics.UmamiWebsiteID != ""
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat returns a float environment variable or a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
