package render

import (
	"context"
	"fmt"

	"github.com/watzon/inkify/pkg/resolve"
)

// Kind classifies an Error by who can fix it.
type Kind int

const (
	// KindClient marks errors the caller caused: unknown theme or font
	// names, highlight lines past the end of the snippet, an unusable
	// background image.
	KindClient Kind = iota
	// KindInternal marks rendering failures that are the server's fault.
	KindInternal
)

// Error is the engine's failure type.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ClientErrorf builds a caller-attributable Error.
func ClientErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindClient, Message: fmt.Sprintf(format, args...)}
}

// InternalErrorf builds a server-attributable Error.
func InternalErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// Engine turns a resolved job into image bytes. Implementations must support
// jobs with an empty Language by applying their own detection heuristics, and
// must report failures as *Error so the orchestrator can map them to a
// response outcome.
type Engine interface {
	Render(ctx context.Context, job *resolve.Job) ([]byte, error)

	// Catalog listings, surfaced verbatim by the listing endpoints.
	Themes() []string
	Fonts() []string
	Languages() []string
}
