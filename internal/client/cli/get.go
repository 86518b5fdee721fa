package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fieldsync/internal/client/storage"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. Usage: fieldsync get <type> <id>")
	}
	if c.cache == nil {
		return fmt.Errorf("entity cache is not available")
	}

	entity, err := c.cache.GetEntity(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return fmt.Errorf("entity %s/%s is not cached; it appears after a successful sync", args[0], args[1])
		}
		return fmt.Errorf("failed to get entity: %w", err)
	}

	c.io.Printf("Entity:   %s/%s\n", entity.Type, entity.ID)
	c.io.Printf("Version:  %d\n", entity.Version)
	c.io.Printf("Updated:  %s\n", entity.UpdatedAt.Format(time.RFC3339))
	c.io.Println()

	out, err := json.MarshalIndent(entity.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format entity: %w", err)
	}
	if _, err := c.io.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("failed to write entity: %w", err)
	}
	return nil
}
