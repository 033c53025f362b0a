// Package observability provides structured logging, Prometheus metrics,
// health probes, OpenTelemetry tracing, and graceful shutdown plumbing.
//
// # Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("theme", job.Theme).Info("render complete")
//
// # Metrics
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.RenderTotal.WithLabelValues("ok").Inc()
//
// # Health
//
// The HealthChecker backs the /health/live and /health/ready endpoints on
// the secondary listener. Readiness verifies that the classifier model and
// the engine catalogs loaded; an optional Redis client is probed when the
// distributed rate limiter is configured.
package observability
