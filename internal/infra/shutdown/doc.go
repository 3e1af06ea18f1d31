// Package shutdown provides graceful shutdown for the key-value store's
// embedding processes.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - A timeout on the context passed to cleanup callbacks
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return store.Close() })
//	err := h.Wait() // blocks until SIGINT or SIGTERM, then runs the callbacks
package shutdown
