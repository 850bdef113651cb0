package cache

import (
	"context"
	"time"

	"github.com/bassista/go_preview/internal/logger"
)

// StartSweeper runs a goroutine that periodically evicts expired entries.
// Returns a channel that is closed when the sweeper has stopped.
func StartSweeper(ctx context.Context, store SweepableStore, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("cache-sweeper").Debugf("starting cache sweeper with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("cache-sweeper").Debug("cache sweeper stopped")
				return
			case <-ticker.C:
				if n := store.EvictExpired(); n > 0 {
					logger.WithComponent("cache-sweeper").Infof("evicted %d expired assets", n)
				}
			}
		}
	}()
	return done
}
