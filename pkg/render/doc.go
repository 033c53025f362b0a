// Package render draws resolved render jobs as PNG images.
//
// # Overview
//
// The Engine interface is the boundary between the request pipeline and the
// rendering machinery: the pipeline hands over a fully resolved job and gets
// back PNG bytes or an Error whose Kind says whether the caller or the server
// is at fault (unknown theme and font names and out-of-range highlight lines
// are the caller's problem; everything else is ours).
//
// ImageEngine is the built-in implementation: chroma tokenizes the snippet
// and a compositor draws the window chrome, line numbers, highlights,
// padding, shadow, and background around the colored tokens. Themes and
// languages come from chroma's style and lexer registries; the font catalog
// is a static validation list. All of it is immutable after process start,
// so the engine is safe for concurrent use.
//
// When a job arrives without a language the engine falls back to shebang and
// document-signature heuristics, then chroma's content analysis, and finally
// to plain text.
package render
