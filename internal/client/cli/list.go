package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iudanet/fieldsync/internal/models"
)

func (c *Cli) runList(args []string) error {
	var status string
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&status, "status", "", "Show only items with this status")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w. usage: fieldsync list [--status PENDING|IN_PROGRESS|COMPLETED|FAILED|CONFLICT]", err)
	}
	status = strings.ToUpper(status)

	var items []*models.SyncQueueItem
	for _, item := range c.engine.Items() {
		if status == "" || string(item.Status) == status {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		c.io.Println("No queued items.")
		return nil
	}

	c.io.Printf("Found %d item(s):\n\n", len(items))

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tOPERATION\tENTITY\tSTATUS\tRETRIES\tPRIORITY\tQUEUED")
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\t%d/%d\t%d\t%s\n",
			item.ID, item.Operation, item.EntityType, item.EntityID, item.Status,
			item.RetryCount, item.MaxRetries, item.Priority, item.Timestamp.Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write list: %w", err)
	}

	for _, item := range items {
		if item.LastError != "" {
			c.io.Printf("\n%s: %s\n", item.ID, item.LastError)
		}
		if item.Status == models.StatusConflict && item.ServerVersion != nil {
			c.io.Printf("\n%s: server is at version %d, local change based on %d\n",
				item.ID, *item.ServerVersion, item.LocalVersion)
		}
	}

	return nil
}
