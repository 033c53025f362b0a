// Package async provides safe background execution for fire-and-forget work.
//
// # Overview
//
// Analytics delivery and similar best-effort tasks run off the request path.
// SafeGo wraps those goroutines with panic recovery and a timeout so a bad
// task can neither crash the process nor leak.
//
//	async.SafeGo(ctx, 5*time.Second, "umami send", logger, func(ctx context.Context) error {
//		return client.Do(req)
//	})
//
// # Related Packages
//
//   - pkg/analytics: uses SafeGo for event delivery
package async
