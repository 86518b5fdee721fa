package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/fieldsync/internal/client/sync"
)

// runDaemon запускает фоновую синхронизацию и работает до отмены ctx
func (c *Cli) runDaemon(ctx context.Context) error {
	if c.daemon == nil {
		return fmt.Errorf("background mode is not available")
	}

	unsubscribe := c.engine.Subscribe(func(s sync.Stats) {
		c.logger.Info("Queue stats",
			"total", s.Total,
			"pending", s.Pending,
			"in_progress", s.InProgress,
			"completed", s.Completed,
			"failed", s.Failed,
			"conflict", s.Conflict,
			"online", s.IsOnline,
			"syncing", s.IsSyncing)
	})
	defer unsubscribe()

	if err := c.daemon.Start(ctx); err != nil {
		return fmt.Errorf("failed to start background sync: %w", err)
	}

	c.io.Println("FieldSync is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	c.io.Println("Stopping...")
	return nil
}
