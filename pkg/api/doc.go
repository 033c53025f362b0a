// Package api provides the HTTP server and the request orchestration pipeline.
//
// # Overview
//
// Server owns the gorilla/mux router and the endpoint handlers. Orchestrator
// runs the per-request pipeline for /generate: parameter resolution, language
// classification when the caller did not name one, and delegation to the
// rendering engine.
//
// # Routes
//
//	GET /          help JSON describing routes and parameters
//	GET /generate  render a snippet to PNG
//	GET /themes    available theme names
//	GET /languages available language names
//	GET /fonts     available font names
//
// Liveness, readiness and Prometheus metrics are served from a separate
// listener owned by cmd/inkify, not from this router.
//
// # Error mapping
//
// Resolution failures return 400 with the offending field and reason.
// Render errors attributable to the caller (unknown theme, highlight line
// past the end of the snippet, unusable background image) also return 400;
// everything else returns 500.
//
// # Related Packages
//
//   - pkg/resolve: parameter resolution
//   - pkg/classify: language classification and resolution policy
//   - pkg/render: the rendering engine boundary
package api
