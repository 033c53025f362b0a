// Package httputil provides HTTP handler utilities for consistent error
// responses, JSON encoding, and the shared middleware chain.
package httputil
