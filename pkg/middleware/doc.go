// Package middleware provides HTTP rate limiting for the render endpoint.
//
// # Overview
//
// Image generation is the expensive path, so /generate is protected by a
// per-client rate limiter keyed on the caller's IP address. Two
// implementations are provided:
//
// RateLimitMiddleware: in-memory token bucket, for single instances
//
//	limiter := middleware.NewRateLimitMiddleware(cfg, metrics)
//	router.Use(limiter.Handler)
//
// DistributedRateLimitMiddleware: Redis-backed counters, for multi-instance
// deployments. Fails open when Redis is unreachable so a cache outage never
// takes the service down with it.
//
//	limiter := middleware.NewDistributedRateLimitMiddleware(redisClient, cfg, metrics)
//	router.Use(limiter.Handler)
package middleware
