package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/fieldsync/internal/client/sync"
)

func (c *Cli) runResolve(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. Usage: fieldsync resolve <item-id> <server|client|merge>")
	}

	resolution, err := sync.ParseResolution(args[1])
	if err != nil {
		return err
	}

	item, err := c.engine.Resolve(ctx, args[0], resolution)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	c.io.Printf("✓ Conflict resolved with %s strategy\n", resolution)
	if item.ServerVersion != nil {
		c.io.Printf("Server version: %d\n", *item.ServerVersion)
	}
	return nil
}

func (c *Cli) runRetry(ctx context.Context, args []string) error {
	n := c.engine.RetryFailed(ctx, args...)
	if n == 0 {
		c.io.Println("No failed items to retry.")
		return nil
	}
	c.io.Printf("✓ %d item(s) returned to the queue\n", n)
	c.io.Println("Run 'fieldsync sync' to push them now.")
	return nil
}
