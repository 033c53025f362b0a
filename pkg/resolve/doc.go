// Package resolve turns the raw /generate query parameters into a fully
// specified render job.
//
// # Overview
//
// Every parameter is an independent parse-with-default rule: if the value is
// present it must parse and pass its range check, otherwise the documented
// default applies. Parsing never coerces silently - a malformed value fails
// resolution with a ValidationError naming the field. Unknown parameters are
// ignored so new clients can send parameters older servers do not know about.
//
// # Usage
//
//	raw := resolve.FromQuery(r.URL.Query())
//	job, err := resolve.Resolve(raw, resolve.Options{})
//	var verr *resolve.ValidationError
//	if errors.As(err, &verr) {
//		// verr.Field and verr.Reason identify what was wrong
//	}
//
// Resolution is a pure function of its input; it performs no I/O and holds no
// state between calls.
package resolve
