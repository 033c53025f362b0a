package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/watzon/inkify/pkg/analytics"
	"github.com/watzon/inkify/pkg/api"
	"github.com/watzon/inkify/pkg/classify"
	"github.com/watzon/inkify/pkg/config"
	"github.com/watzon/inkify/pkg/fetch"
	"github.com/watzon/inkify/pkg/httputil"
	"github.com/watzon/inkify/pkg/middleware"
	"github.com/watzon/inkify/pkg/observability"
	"github.com/watzon/inkify/pkg/render"
	"github.com/watzon/inkify/pkg/resolve"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inkify: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithField("port", cfg.Server.Port).Info("Starting inkify")

	ctx := context.Background()

	// Tracing (optional)
	tp, err := observability.InitTracing(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("tracing init: %w", err)
	}

	// Metrics
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
	}

	// Classifier: a configured model path must load, the embedded model is
	// the fallback when no path is set.
	var classifier *classify.Classifier
	if cfg.Classifier.ModelPath != "" {
		classifier, err = classify.LoadFile(cfg.Classifier.ModelPath, cfg.Classifier.MaxInputBytes)
		if err != nil {
			return fmt.Errorf("loading model from %s: %w", cfg.Classifier.ModelPath, err)
		}
		logger.WithField("path", cfg.Classifier.ModelPath).Info("Loaded classifier model")
	} else {
		classifier, err = classify.LoadEmbedded(cfg.Classifier.MaxInputBytes)
		if err != nil {
			return fmt.Errorf("loading embedded model: %w", err)
		}
		logger.Info("Loaded embedded classifier model")
	}

	// Rendering engine with its background-image fetcher.
	fetcher, err := fetch.New(cfg.Render.FetchCacheSize, fetch.WithMaxBytes(cfg.Render.FetchMaxBytes))
	if err != nil {
		return fmt.Errorf("creating fetcher: %w", err)
	}
	engine := render.NewImageEngine(fetcher)

	orchestrator := api.NewOrchestrator(classifier, engine, resolve.Options{
		DefaultTheme: cfg.Render.DefaultTheme,
		DefaultFont:  cfg.Render.DefaultFont,
		MaxCodeBytes: cfg.Render.MaxCodeBytes,
	}, cfg.Classifier.ConfidenceFloor, metrics)

	// Rate limiting for /generate: Redis-backed when configured, in-memory
	// otherwise.
	rateLimitCfg := &middleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
		WindowDuration:    time.Minute,
		BurstSize:         cfg.RateLimit.Burst,
	}
	var redisClient *redis.Client
	var generateLimiter func(http.Handler) http.Handler
	if cfg.RateLimit.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis URL: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		generateLimiter = middleware.NewDistributedRateLimitMiddleware(redisClient, rateLimitCfg, metrics).Handler
		logger.Info("Using Redis-backed rate limiter")
	} else {
		inMemory := middleware.NewRateLimitMiddleware(rateLimitCfg, metrics)
		generateLimiter = inMemory.Handler
	}

	reporter := analytics.New(cfg.Analytics.UmamiURL, cfg.Analytics.UmamiWebsiteID)
	if reporter != nil {
		logger.Info("Umami analytics enabled")
	}

	server := api.NewServer(orchestrator, engine,
		api.WithAnalytics(reporter),
		api.WithMetrics(metrics),
		api.WithGenerateLimiter(generateLimiter),
	)

	var handler http.Handler = httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.CORSMiddleware([]string{"*"}),
	)(server)
	if tp != nil {
		handler = otelhttp.NewHandler(handler, "inkify")
	}

	mainServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Separate listener for probes and metrics.
	healthChecker := observability.NewHealthChecker(redisClient,
		observability.ProbeFunc{ProbeName: "classifier", Fn: func(ctx context.Context) error {
			if len(classifier.Languages()) == 0 {
				return fmt.Errorf("classifier model has no languages")
			}
			return nil
		}},
		observability.ProbeFunc{ProbeName: "engine", Fn: func(ctx context.Context) error {
			if len(engine.Themes()) == 0 || len(engine.Fonts()) == 0 {
				return fmt.Errorf("engine catalogs are empty")
			}
			return nil
		}},
	)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health/live", healthChecker.Liveness)
	healthMux.HandleFunc("/health/ready", healthChecker.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.WithField("addr", mainServer.Addr).Info("HTTP server listening")
		if err := mainServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("main server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, mainServer, healthServer)
	if tp != nil {
		shutdown.RegisterShutdownFunc("tracing", func(ctx context.Context) error {
			return observability.ShutdownTracing(ctx, tp, logger)
		})
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	if err := shutdown.WaitForShutdown(); err != nil {
		return err
	}
	return g.Wait()
}
