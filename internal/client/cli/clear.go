package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

func (c *Cli) runClear(ctx context.Context, args []string) error {
	var yes bool
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&yes, "yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w. usage: fieldsync clear [--yes]", err)
	}

	total := c.engine.Stats().Total
	if total == 0 {
		c.io.Println("Queue is already empty.")
		return nil
	}

	if !yes {
		answer, err := c.io.ReadInput(fmt.Sprintf("Drop %d queued item(s), including unsynchronized changes? (yes/no): ", total))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if strings.ToLower(answer) != "yes" {
			c.io.Println("Cancelled.")
			return nil
		}
	}

	if err := c.engine.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	c.io.Printf("✓ Removed %d item(s)\n", total)
	return nil
}
