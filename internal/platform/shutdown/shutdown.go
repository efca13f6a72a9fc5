// Package shutdown turns SIGINT and SIGTERM into a callback plus a context
// cancellation, so a running focus session can be closed as a process stop.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Notify watches for SIGINT and SIGTERM until ctx is done. On the first
// signal it runs onSignal (when non-nil) and then calls cancel.
func Notify(ctx context.Context, cancel context.CancelFunc, onSignal func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			if onSignal != nil {
				onSignal()
			}
			cancel()
		case <-ctx.Done():
		}
	}()
}
