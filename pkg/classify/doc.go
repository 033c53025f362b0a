// Package classify guesses the programming language of a code snippet.
//
// # Overview
//
// The classifier wraps a multinomial naive Bayes model over code tokens,
// loaded once at process start. A load failure is fatal; the process must not
// serve traffic with a half-initialized classifier. After loading, the model
// is read-only and safe to share across concurrent requests.
//
// Classification is best effort by design. Oversized input, input that
// produces no tokens, or input sharing no vocabulary with the model all yield
// an empty Result rather than an error - a failed guess must never fail the
// request that asked for it.
//
// # Model format
//
// Models are YAML documents mapping language labels to token counts, produced
// by cmd/modelgen from a labelled corpus:
//
//	version: 1
//	languages:
//	  - name: python
//	    tokens:
//	      def: 120
//	      self: 96
//
// A compact default model is embedded in the binary and used when no model
// path is configured.
//
// # Language resolution
//
// ResolveLanguage applies the fallback chain: an explicit user value wins
// unconditionally, then the top classifier candidate if its confidence meets
// the configured floor, then empty (the rendering engine's own heuristics).
package classify
