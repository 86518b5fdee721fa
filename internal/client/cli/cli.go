// Package cli реализует команды оператора поверх sync.Engine.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/fieldsync/internal/client/iocli"
	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/client/sync"
	"github.com/iudanet/fieldsync/internal/models"
)

//go:generate moq -out engine_mock.go . Engine

// Engine операции движка синхронизации, которые использует CLI
type Engine interface {
	Enqueue(ctx context.Context, req queue.EnqueueRequest) (string, error)
	Sync(ctx context.Context) (*sync.PassResult, error)
	Resolve(ctx context.Context, id string, resolution sync.Resolution) (*models.SyncQueueItem, error)
	RetryFailed(ctx context.Context, ids ...string) int
	Clear(ctx context.Context) error
	Stats() sync.Stats
	Items() []*models.SyncQueueItem
	Subscribe(fn func(sync.Stats)) func()
}

// Daemon запускает фоновые источники синхронизации для команды run
type Daemon interface {
	Start(ctx context.Context) error
}

type Cli struct {
	io     iocli.IO
	engine Engine
	cache  storage.CacheStorage
	daemon Daemon
	logger *slog.Logger
}

// New создает CLI. cache и daemon могут быть nil, тогда команды get и run недоступны.
func New(io iocli.IO, engine Engine, cache storage.CacheStorage, daemon Daemon, logger *slog.Logger) *Cli {
	return &Cli{
		io:     io,
		engine: engine,
		cache:  cache,
		daemon: daemon,
		logger: logger,
	}
}

func PrintUsage() {
	fmt.Println("FieldSync Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fieldsync [OPTIONS] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version                    Show version information")
	fmt.Println("  --config PATH                YAML config file")
	fmt.Println("  --server URL                 Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH                    Path to local database (default: fieldsync.db)")
	fmt.Println("  --token TOKEN                Device access token")
	fmt.Println("  --conflict-resolution MODE   server, client or manual (default: manual)")
	fmt.Println("  --batch-size N               Items per concurrent batch (default: 10)")
	fmt.Println("  --max-retries N              Retry budget per item (default: 3)")
	fmt.Println("  --retry-delay DURATION       Base backoff delay, 5s or 5000 (default: 5s)")
	fmt.Println("  --sync-interval DURATION     Periodic sync interval for 'run' (default: 30s)")
	fmt.Println("  --compress                   Compress queued payloads")
	fmt.Println("  --encrypt                    Encrypt queued payloads")
	fmt.Println("  --passphrase-file PATH       File containing the encryption passphrase")
	fmt.Println("  --log-level LEVEL            debug, info, warn, error (default: info)")
	fmt.Println("  --log-file PATH              Rotating log file")
	fmt.Println()
	fmt.Println("Every option can also be set with a FIELDSYNC_* environment variable")
	fmt.Println("(e.g. FIELDSYNC_SERVER_URL) or in the YAML config file.")
	fmt.Println()
	fmt.Println("Passphrase Priority (highest to lowest):")
	fmt.Println("  1. FIELDSYNC_PASSPHRASE environment variable")
	fmt.Println("  2. --passphrase-file (file path)")
	fmt.Println("  3. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  enqueue <op> <type> <id>   Queue a mutation (op: create, update, delete, upload)")
	fmt.Println("  sync                       Run one sync pass now")
	fmt.Println("  status                     Show queue statistics")
	fmt.Println("  list [--status S]          List queued items")
	fmt.Println("  get <type> <id>            Show the cached server copy of an entity")
	fmt.Println("  resolve <item-id> <how>    Resolve a conflict (how: server, client, merge)")
	fmt.Println("  retry [item-id...]         Return failed items to the queue")
	fmt.Println("  clear [--yes]              Drop the whole queue")
	fmt.Println("  run                        Run in the background and sync when online")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  fieldsync enqueue create task 42 --data '{\"title\":\"Inspect pump\"}'")
	fmt.Println("  fieldsync enqueue update task 42 --data '{\"status\":\"done\"}' --version 3")
	fmt.Println("  fieldsync enqueue upload photo 42-front --file front.jpg --depends task_42_1767261600000")
	fmt.Println("  fieldsync sync")
	fmt.Println("  fieldsync list --status CONFLICT")
	fmt.Println("  fieldsync resolve task_42_1767261600000 merge")
	fmt.Println("  fieldsync --conflict-resolution server --log-file fieldsync.log run")
}
