package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/sync"
	"github.com/iudanet/fieldsync/internal/models"
)

const enqueueUsage = "usage: fieldsync enqueue <create|update|delete|upload> <type> <id> [--data JSON] [--file PATH] [--version N] [--priority N] [--depends ID,ID] [--max-retries N] [--content-type MIME]"

type enqueueFlags struct {
	data        string
	file        string
	depends     string
	contentType string
	version     int64
	priority    int
	maxRetries  int
}

func (c *Cli) runEnqueue(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("missing arguments. %s", enqueueUsage)
	}

	op := models.Operation(strings.ToUpper(args[0]))
	if !op.Valid() {
		return fmt.Errorf("unknown operation %q. Use: create, update, delete or upload", args[0])
	}
	entityType, entityID := args[1], args[2]

	var f enqueueFlags
	fs := flag.NewFlagSet("enqueue", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.data, "data", "", "JSON object payload")
	fs.StringVar(&f.file, "file", "", "Payload file: JSON for create/update, raw content for upload")
	fs.StringVar(&f.depends, "depends", "", "Comma-separated ids of items that must complete first")
	fs.StringVar(&f.contentType, "content-type", "", "MIME type of uploaded content")
	fs.Int64Var(&f.version, "version", 0, "Local version the mutation is based on")
	fs.IntVar(&f.priority, "priority", 0, "Higher runs first")
	fs.IntVar(&f.maxRetries, "max-retries", 0, "Retry budget for this item")
	if err := fs.Parse(args[3:]); err != nil {
		return fmt.Errorf("%w. %s", err, enqueueUsage)
	}

	payload, err := buildPayload(op, f)
	if err != nil {
		return err
	}

	id, err := c.engine.Enqueue(ctx, queue.EnqueueRequest{
		Payload:      payload,
		Operation:    op,
		EntityType:   entityType,
		EntityID:     entityID,
		Dependencies: splitIDs(f.depends),
		Priority:     f.priority,
		MaxRetries:   f.maxRetries,
		LocalVersion: f.version,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue: %w", err)
	}

	c.io.Printf("✓ Queued %s %s/%s\n", op, entityType, entityID)
	c.io.Printf("Item ID: %s\n", id)

	stats := c.engine.Stats()
	c.io.Printf("Pending: %d\n", stats.Pending)
	return nil
}

func buildPayload(op models.Operation, f enqueueFlags) (map[string]any, error) {
	if f.data != "" && f.file != "" {
		return nil, fmt.Errorf("use either --data or --file, not both")
	}

	if op == models.OperationUpload {
		if f.file == "" {
			return nil, fmt.Errorf("upload requires --file")
		}
		content, err := os.ReadFile(f.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload file: %w", err)
		}
		contentType := f.contentType
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(f.file))
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return map[string]any{
			sync.UploadContentField:     base64.StdEncoding.EncodeToString(content),
			sync.UploadContentTypeField: contentType,
		}, nil
	}

	raw := []byte(f.data)
	if f.file != "" {
		content, err := os.ReadFile(f.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		raw = content
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if op == models.OperationDelete {
			return nil, nil
		}
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	return payload, nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
