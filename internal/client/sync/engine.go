package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

const (
	// DefaultBatchSize размер пакета по умолчанию
	DefaultBatchSize = 10
	// DefaultRetentionWindow сколько хранятся COMPLETED элементы
	DefaultRetentionWindow = 24 * time.Hour
)

var (
	// ErrSyncInProgress indicates that another sync pass is running
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrEngineStarted indicates Start was called twice
	ErrEngineStarted = errors.New("sync engine already started")
)

// State состояние оркестратора
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
)

// Deps внешние зависимости Engine
type Deps struct {
	Queue  *queue.Manager
	Remote Remote
	// Cache локальный кэш сущностей, может быть nil
	Cache storage.CacheStorage
	// Metadata хранит время последнего прохода, может быть nil
	Metadata storage.MetadataStorage
	// Network источник состояния сети; nil означает "всегда онлайн"
	Network NetworkSource
	// Triggers дополнительные источники запуска (например, PeriodicTrigger)
	Triggers []TriggerSource
	Clock    queue.Clock
}

// Options настройки оркестратора
type Options struct {
	ConflictPolicy  Policy
	BatchSize       int
	RetryDelay      time.Duration
	RetentionWindow time.Duration
}

// PassResult итоги одного прохода синхронизации
type PassResult struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Reason     Reason
	Attempted  int
	Completed  int
	Conflicts  int
	Retrying   int
	Failed     int
	Waiting    int
	Resolved   int
	Removed    int
	Batches    int
}

// Engine is the sync orchestrator. It owns the idle/syncing state machine,
// turns trigger signals into sync passes and publishes Stats after every
// enqueue and every finished pass.
type Engine struct {
	queue       *queue.Manager
	processor   *Processor
	resolver    *Resolver
	broadcaster *Broadcaster
	metadata    storage.MetadataStorage
	network     NetworkSource
	clock       queue.Clock
	logger      *slog.Logger
	baseCtx     context.Context
	triggers    []TriggerSource
	opts        Options
	background  sync.WaitGroup
	syncing     atomic.Bool
	started     bool
	mu          sync.Mutex
}

// NewEngine создает Engine; Start подключает источники запуска
func NewEngine(deps Deps, opts Options, logger *slog.Logger) *Engine {
	if deps.Clock == nil {
		deps.Clock = queue.SystemClock{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.RetentionWindow <= 0 {
		opts.RetentionWindow = DefaultRetentionWindow
	}
	if !opts.ConflictPolicy.Valid() {
		opts.ConflictPolicy = PolicyManual
	}

	triggers := make([]TriggerSource, 0, len(deps.Triggers)+1)
	triggers = append(triggers, deps.Triggers...)
	if deps.Network != nil {
		triggers = append(triggers, NewNetworkTrigger(deps.Network))
	}

	return &Engine{
		queue:       deps.Queue,
		processor:   NewProcessor(deps.Queue, deps.Remote, deps.Cache, deps.Clock, opts.RetryDelay, logger),
		resolver:    NewResolver(deps.Queue, deps.Remote, deps.Cache, deps.Clock, logger),
		broadcaster: NewBroadcaster(),
		metadata:    deps.Metadata,
		network:     deps.Network,
		clock:       deps.Clock,
		logger:      logger,
		baseCtx:     context.Background(),
		triggers:    triggers,
		opts:        opts,
	}
}

// Start subscribes the engine to its trigger sources and, when online with
// queued work, starts the first pass right away. Background passes keep the
// values of ctx but not its cancellation: in-flight remote calls finish even
// after ctx is done.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrEngineStarted
	}

	e.baseCtx = context.WithoutCancel(ctx)
	for i, t := range e.triggers {
		if err := t.Start(e.onTrigger); err != nil {
			for _, started := range e.triggers[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start trigger source: %w", err)
		}
	}
	e.started = true

	e.logger.Info("Sync engine started",
		"batch_size", e.opts.BatchSize,
		"conflict_policy", e.opts.ConflictPolicy,
		"triggers", len(e.triggers))

	// очередь, загруженная с диска, не ждет первого тика таймера
	if e.Online() && e.queue.HasWork() {
		e.goSyncLocked(ReasonStartup)
	}
	return nil
}

// Stop cancels the trigger sources and waits for background passes to
// finish on their own. In-flight remote calls are not interrupted.
func (e *Engine) Stop() {
	e.mu.Lock()
	wasStarted := e.started
	e.started = false
	e.mu.Unlock()

	// после started=false goSync не запускает новых проходов,
	// поэтому источники останавливаются без e.mu
	if wasStarted {
		for _, t := range e.triggers {
			t.Stop()
		}
	}

	e.background.Wait()
	e.logger.Info("Sync engine stopped")
}

// State returns the current orchestrator state
func (e *Engine) State() State {
	if e.syncing.Load() {
		return StateSyncing
	}
	return StateIdle
}

// Online reports the network state; without a network source the engine is online
func (e *Engine) Online() bool {
	return e.network == nil || e.network.Online()
}

// Enqueue adds a mutation, publishes stats and, once the engine is started,
// starts a background pass if it is online and idle.
func (e *Engine) Enqueue(ctx context.Context, req queue.EnqueueRequest) (string, error) {
	id, err := e.queue.Enqueue(ctx, req)
	if err != nil {
		return "", err
	}

	e.publish()

	if e.isStarted() && e.Online() && e.State() == StateIdle {
		e.goSync(ReasonEnqueue)
	}

	return id, nil
}

func (e *Engine) isStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

func (e *Engine) onTrigger(reason Reason) {
	switch reason {
	case ReasonPeriodic:
		if !e.Online() {
			e.logger.Debug("Skipping periodic sync while offline")
			return
		}
	case ReasonReconnect:
		if !e.queue.HasWork() {
			return
		}
	}
	e.goSync(reason)
}

func (e *Engine) goSync(reason Reason) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.goSyncLocked(reason)
}

// goSyncLocked требует e.mu; Add выполняется под тем же мьютексом, что и
// сброс started в Stop, так что Wait не пересекается с новым Add
func (e *Engine) goSyncLocked(reason Reason) {
	if !e.started {
		return
	}
	ctx := e.baseCtx

	e.background.Add(1)
	go func() {
		defer e.background.Done()
		if _, err := e.SyncWithReason(ctx, reason); err != nil && !errors.Is(err, ErrSyncInProgress) {
			e.logger.Error("Background sync failed", "reason", reason, "error", err)
		}
	}()
}

// Sync runs one pass on the caller's request
func (e *Engine) Sync(ctx context.Context) (*PassResult, error) {
	return e.SyncWithReason(ctx, ReasonManual)
}

// SyncWithReason runs one sync pass: eligible items are split into batches
// of BatchSize, batches run one after another and the items of a batch run
// concurrently. When the pass ends the queue is persisted, completed items
// past the retention window are removed and stats are published, whatever
// happened to individual items. Returns ErrSyncInProgress if a pass is
// already running.
func (e *Engine) SyncWithReason(ctx context.Context, reason Reason) (*PassResult, error) {
	if !e.syncing.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}

	result := &PassResult{Reason: reason, StartedAt: e.clock.Now()}
	e.logger.Info("Sync pass started", "reason", reason)

	defer func() {
		e.finishPass(ctx, result)
		e.syncing.Store(false)
		e.publish()
	}()

	eligible := e.queue.Eligible(result.StartedAt)
	result.Attempted = len(eligible)

	for start := 0; start < len(eligible); start += e.opts.BatchSize {
		end := min(start+e.opts.BatchSize, len(eligible))
		e.runBatch(ctx, eligible[start:end], result)
		result.Batches++
	}

	if resolution, ok := e.opts.ConflictPolicy.Resolution(); ok {
		result.Resolved = e.autoResolve(ctx, resolution)
	}

	return result, nil
}

// runBatch обрабатывает элементы пакета параллельно; ошибка одного не влияет на остальные
func (e *Engine) runBatch(ctx context.Context, batch []*models.SyncQueueItem, result *PassResult) {
	outcomes := make([]Outcome, len(batch))

	var g errgroup.Group
	g.SetLimit(e.opts.BatchSize)
	for i, item := range batch {
		g.Go(func() error {
			outcomes[i] = e.processor.Process(ctx, item.ID)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		switch o {
		case OutcomeCompleted:
			result.Completed++
		case OutcomeConflict:
			result.Conflicts++
		case OutcomeRetry:
			result.Retrying++
		case OutcomeFailed:
			result.Failed++
		case OutcomeWaiting:
			result.Waiting++
		}
	}
}

func (e *Engine) autoResolve(ctx context.Context, resolution Resolution) int {
	resolved := 0
	for _, item := range e.queue.List() {
		if item.Status != models.StatusConflict {
			continue
		}
		if _, err := e.resolver.Resolve(ctx, item.ID, resolution); err != nil {
			e.logger.Warn("Automatic conflict resolution failed",
				"item_id", item.ID,
				"resolution", resolution,
				"error", err)
			continue
		}
		resolved++
	}
	return resolved
}

// finishPass выполняется в конце каждого прохода, даже при ошибках отдельных элементов
func (e *Engine) finishPass(ctx context.Context, result *PassResult) {
	if err := e.queue.Persist(ctx); err != nil {
		e.logger.Error("Failed to persist queue after sync pass", "error", err)
	}

	result.Removed = e.queue.Cleanup(ctx, e.opts.RetentionWindow)
	result.FinishedAt = e.clock.Now()

	if e.metadata != nil {
		if err := e.metadata.SaveLastSyncTimestamp(ctx, result.FinishedAt.Unix()); err != nil {
			e.logger.Warn("Failed to save last sync timestamp", "error", err)
		}
	}

	e.logger.Info("Sync pass finished",
		"reason", result.Reason,
		"attempted", result.Attempted,
		"completed", result.Completed,
		"conflicts", result.Conflicts,
		"retrying", result.Retrying,
		"failed", result.Failed,
		"waiting", result.Waiting,
		"resolved", result.Resolved,
		"removed", result.Removed,
		"batches", result.Batches)
}

// Resolve settles a CONFLICT item explicitly and publishes stats
func (e *Engine) Resolve(ctx context.Context, id string, resolution Resolution) (*models.SyncQueueItem, error) {
	item, err := e.resolver.Resolve(ctx, id, resolution)
	if err != nil {
		return nil, err
	}
	e.publish()
	return item, nil
}

// RetryFailed returns FAILED items to PENDING with a fresh retry budget
func (e *Engine) RetryFailed(ctx context.Context, ids ...string) int {
	n := e.queue.RetryFailed(ctx, ids...)
	if n > 0 {
		e.publish()
	}
	return n
}

// Clear drops the whole queue
func (e *Engine) Clear(ctx context.Context) error {
	if e.State() == StateSyncing {
		return ErrSyncInProgress
	}
	if err := e.queue.Clear(ctx); err != nil {
		return err
	}
	e.publish()
	return nil
}

// Items returns copies of the queued items in processing order
func (e *Engine) Items() []*models.SyncQueueItem {
	return e.queue.List()
}

// Subscribe registers fn to receive stats and returns the unsubscribe function
func (e *Engine) Subscribe(fn func(Stats)) func() {
	return e.broadcaster.Subscribe(fn)
}

// Stats returns the current queue statistics
func (e *Engine) Stats() Stats {
	c := e.queue.Counts()
	return Stats{
		LastSyncTime: c.LastSyncTime,
		Total:        c.Total,
		Pending:      c.Pending,
		InProgress:   c.InProgress,
		Completed:    c.Completed,
		Failed:       c.Failed,
		Conflict:     c.Conflict,
		IsOnline:     e.Online(),
		IsSyncing:    e.syncing.Load(),
	}
}

func (e *Engine) publish() {
	e.broadcaster.Publish(e.Stats())
}
