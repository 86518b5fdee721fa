package cli

import (
	"time"

	"github.com/iudanet/fieldsync/internal/client/sync"
)

func (c *Cli) runStatus() error {
	c.io.Println("=== Sync Status ===")
	c.io.Println()

	c.printStats(c.engine.Stats())
	return nil
}

func (c *Cli) printStats(stats sync.Stats) {
	if stats.LastSyncTime != nil {
		c.io.Printf("Last sync:    %s\n", stats.LastSyncTime.Format(time.RFC3339))
	} else {
		c.io.Println("Last sync:    never")
	}
	c.io.Printf("Total:        %d\n", stats.Total)
	c.io.Printf("Pending:      %d\n", stats.Pending)
	c.io.Printf("In progress:  %d\n", stats.InProgress)
	c.io.Printf("Completed:    %d\n", stats.Completed)
	c.io.Printf("Failed:       %d\n", stats.Failed)
	c.io.Printf("Conflict:     %d\n", stats.Conflict)
}
