package resolve

import "fmt"

// ValidationError reports a missing or malformed request parameter. It is
// always client-attributable and short-circuits the pipeline before any
// external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// MissingField reports a required parameter that was absent or empty.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required parameter is missing"}
}

// InvalidField reports a parameter that was present but failed to parse or
// was out of range.
func InvalidField(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
