package classify

import "strings"

// ResolveLanguage decides the final language for a render job. The fallback
// chain is: explicit user intent, then a high-confidence model guess, then
// empty, which defers detection to the rendering engine. An explicit value is
// never validated against a catalog here - an unrecognized language name is
// the rendering engine's concern.
//
// The function is pure and total; it always returns.
func ResolveLanguage(userValue string, result Result, confidenceFloor float64) string {
	if v := strings.TrimSpace(userValue); v != "" {
		return v
	}
	if top, ok := result.Top(); ok && top.Confidence >= confidenceFloor {
		return top.Language
	}
	return ""
}
