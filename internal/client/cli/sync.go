package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/fieldsync/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	if c.engine.Stats().Total == 0 {
		c.io.Println("Queue is empty, nothing to synchronize.")
		return nil
	}

	c.io.Println("Starting synchronization with server...")

	result, err := c.engine.Sync(ctx)
	if err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) {
			return fmt.Errorf("another sync pass is running")
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	c.io.Printf("Attempted:          %d item(s)\n", result.Attempted)
	c.io.Printf("Completed:          %d\n", result.Completed)
	if result.Conflicts > 0 {
		c.io.Printf("Conflicts:          %d\n", result.Conflicts)
	}
	if result.Resolved > 0 {
		c.io.Printf("Auto-resolved:      %d\n", result.Resolved)
	}
	if result.Retrying > 0 {
		c.io.Printf("Will retry:         %d\n", result.Retrying)
	}
	if result.Failed > 0 {
		c.io.Printf("Failed:             %d\n", result.Failed)
	}
	if result.Waiting > 0 {
		c.io.Printf("Waiting on deps:    %d\n", result.Waiting)
	}
	if result.Removed > 0 {
		c.io.Printf("Cleaned up:         %d\n", result.Removed)
	}

	c.io.Println()
	stats := c.engine.Stats()
	switch {
	case stats.Conflict > 0:
		c.io.Printf("⚠️  %d conflict(s) need attention. Run 'fieldsync list --status CONFLICT'.\n", stats.Conflict)
	case stats.Failed > 0:
		c.io.Printf("⚠️  %d item(s) failed. Run 'fieldsync retry' to try again.\n", stats.Failed)
	case stats.Pending > 0:
		c.io.Printf("%d item(s) still pending.\n", stats.Pending)
	default:
		c.io.Println("✓ All queued changes are synchronized with the server")
	}

	return nil
}
