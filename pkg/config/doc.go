// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	INKIFY_HOST="0.0.0.0"
//	INKIFY_PORT="8080"
//	INKIFY_HEALTH_PORT="9090"
//	INKIFY_READ_TIMEOUT="15s"
//	INKIFY_WRITE_TIMEOUT="30s"
//
// Classifier settings:
//
//	INKIFY_MODEL_PATH="/etc/inkify/model.yaml"  # empty = embedded model
//	INKIFY_CONFIDENCE_FLOOR="0.60"
//	INKIFY_MAX_CLASSIFY_BYTES="65536"
//
// Render settings:
//
//	INKIFY_DEFAULT_THEME="Dracula"
//	INKIFY_DEFAULT_FONT="Fira Code"
//	INKIFY_MAX_CODE_BYTES="262144"
//
// Rate limiting (Redis optional; in-memory limiter used when unset):
//
//	INKIFY_REDIS_URL="redis://localhost:6379"
//	INKIFY_RATE_LIMIT_PER_MINUTE="60"
//	INKIFY_RATE_LIMIT_BURST="10"
//
// Observability settings:
//
//	INKIFY_LOG_LEVEL="info"  # debug, info, warn, error
//	INKIFY_METRICS_ENABLED="true"
//	INKIFY_OTEL_ENABLED="false"
//	INKIFY_OTEL_ENDPOINT="otel-collector:4317"
//
// Analytics (optional; disabled when either value is empty):
//
//	INKIFY_UMAMI_URL="https://umami.example.com"
//	INKIFY_UMAMI_WEBSITE_ID="..."
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Related Packages
//
//   - pkg/observability: Uses observability configuration
//   - pkg/classify: Uses classifier configuration
package config
