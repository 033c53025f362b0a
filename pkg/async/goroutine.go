package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/watzon/inkify/pkg/observability"
)

// SafeGo executes fn in a goroutine with a timeout, panic recovery and error
// logging. Use this instead of a bare `go func()` for best-effort background
// work. The task's failure is logged, never propagated.
func SafeGo(parentCtx context.Context, timeout time.Duration, taskName string, logger *observability.Logger, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				log(logger).WithFields(map[string]interface{}{
					"task":  taskName,
					"panic": fmt.Sprintf("%v", r),
					"stack": string(debug.Stack()),
				}).Error("background task panicked")
			}
		}()

		if err := fn(ctx); err != nil {
			log(logger).WithError(err).WithField("task", taskName).Debug("background task failed")
		}
	}()
}

func log(logger *observability.Logger) *observability.Logger {
	if logger != nil {
		return logger
	}
	return observability.NewLogger(observability.InfoLevel, nil)
}
