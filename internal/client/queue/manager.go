// Package queue owns the in-memory sync queue: ordering, dependency
// bookkeeping, retention cleanup and persistence through storage.QueueStorage.
// Manager is the only writer of queue contents.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/codec"
	"github.com/iudanet/fieldsync/internal/models"
	"github.com/iudanet/fieldsync/internal/validation"
)

// DefaultMaxRetries бюджет попыток по умолчанию
const DefaultMaxRetries = 3

var (
	// ErrItemNotFound indicates that no item with the given id is queued
	ErrItemNotFound = errors.New("queue item not found")

	// ErrUnknownDependency indicates that a dependency id is not in the queue
	ErrUnknownDependency = errors.New("unknown dependency")
)

// Clock abstracts time for tests
type Clock interface {
	Now() time.Time
}

// SystemClock returns wall-clock time in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// EnqueueRequest описывает новую мутацию
type EnqueueRequest struct {
	Payload      map[string]any
	Operation    models.Operation
	EntityType   string
	EntityID     string
	Dependencies []string
	Priority     int
	// MaxRetries overrides the manager default when > 0
	MaxRetries int
	// LocalVersion overrides the version read from Payload when > 0
	LocalVersion int64
}

// Counts содержит количество элементов по статусам
type Counts struct {
	LastSyncTime *time.Time
	Total        int
	Pending      int
	InProgress   int
	Completed    int
	Failed       int
	Conflict     int
}

// Options настраивает Manager
type Options struct {
	Clock      Clock
	MaxRetries int
}

// Manager хранит очередь как индекс по id плюс отсортированное представление.
// Все изменения проходят через mu; Persist выполняется под тем же mutex,
// поэтому записи в хранилище никогда не перемешиваются.
type Manager struct {
	items      map[string]*models.SyncQueueItem
	store      storage.QueueStorage
	codec      codec.Codec
	clock      Clock
	logger     *slog.Logger
	order      []*models.SyncQueueItem
	maxRetries int
	mu         sync.Mutex
}

// NewManager создает пустой Manager; Load восстанавливает сохраненную очередь
func NewManager(store storage.QueueStorage, c codec.Codec, opts Options, logger *slog.Logger) *Manager {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	return &Manager{
		items:      make(map[string]*models.SyncQueueItem),
		store:      store,
		codec:      c,
		clock:      opts.Clock,
		logger:     logger,
		maxRetries: opts.MaxRetries,
	}
}

// Enqueue constructs a PENDING item, inserts it in queue order and persists the queue.
func (m *Manager) Enqueue(ctx context.Context, req EnqueueRequest) (string, error) {
	if !req.Operation.Valid() {
		return "", fmt.Errorf("unsupported operation %q", req.Operation)
	}
	if err := validation.ValidateEntityType(req.EntityType); err != nil {
		return "", err
	}
	if err := validation.ValidateEntityID(req.EntityID); err != nil {
		return "", err
	}

	data, err := codec.EncodeString(m.codec, req.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	localVersion := req.LocalVersion
	if localVersion <= 0 {
		if v, ok := models.VersionOf(req.Payload); ok {
			localVersion = v
		}
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = m.maxRetries
	}

	deps := make([]string, 0, len(req.Dependencies))
	deps = append(deps, req.Dependencies...)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dep := range deps {
		if _, ok := m.items[dep]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownDependency, dep)
		}
	}

	now := m.clock.Now()
	id := models.NewItemID(req.EntityType, req.EntityID, now)
	if _, exists := m.items[id]; exists {
		// Два enqueue одной сущности в одну миллисекунду
		id = id + "-" + uuid.NewString()[:8]
	}

	item := &models.SyncQueueItem{
		ID:           id,
		Operation:    req.Operation,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		Data:         data,
		Timestamp:    now,
		Status:       models.StatusPending,
		RetryCount:   0,
		MaxRetries:   maxRetries,
		Priority:     req.Priority,
		Dependencies: deps,
		LocalVersion: localVersion,
	}

	m.items[id] = item
	m.order = append(m.order, item)
	m.sortLocked()
	m.persistLocked(ctx)

	m.logger.Info("Enqueued mutation",
		"item_id", id,
		"operation", item.Operation,
		"entity_type", item.EntityType,
		"entity_id", item.EntityID,
		"priority", item.Priority,
		"dependencies", len(deps))

	return id, nil
}

// Sort restores queue order: priority desc, timestamp asc, insertion order for ties.
func (m *Manager) Sort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sortLocked()
}

func (m *Manager) sortLocked() {
	sort.SliceStable(m.order, func(i, j int) bool {
		return m.order[i].Before(m.order[j])
	})
}

// Persist writes the whole queue to storage.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistLocked(ctx)
}

// persistLocked пишет очередь в хранилище; ошибка логируется,
// очередь продолжает работать с последним состоянием в памяти
func (m *Manager) persistLocked(ctx context.Context) error {
	snapshot := make([]*models.SyncQueueItem, len(m.order))
	copy(snapshot, m.order)

	if err := m.store.SaveQueue(ctx, snapshot); err != nil {
		m.logger.Error("Failed to persist sync queue", "error", err, "items", len(snapshot))
		return fmt.Errorf("failed to persist queue: %w", err)
	}
	return nil
}

// Load replaces the in-memory queue with the persisted one and returns the
// number of restored items. Unreadable or corrupted state yields an empty queue.
// Items left IN_PROGRESS by an interrupted pass go back to PENDING.
func (m *Manager) Load(ctx context.Context) int {
	items, err := m.store.LoadQueue(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrQueueCorrupted) {
			m.logger.Warn("Persisted sync queue is corrupted, starting with empty queue", "error", err)
		} else {
			m.logger.Error("Failed to load sync queue, starting with empty queue", "error", err)
		}
		items = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*models.SyncQueueItem, len(items))
	m.order = make([]*models.SyncQueueItem, 0, len(items))

	interrupted := 0
	for _, item := range items {
		if _, dup := m.items[item.ID]; dup {
			m.logger.Warn("Skipping duplicate queue item", "item_id", item.ID)
			continue
		}
		if item.Status == models.StatusInProgress {
			item.Status = models.StatusPending
			interrupted++
		}
		if item.Dependencies == nil {
			item.Dependencies = []string{}
		}
		m.items[item.ID] = item
		m.order = append(m.order, item)
	}
	m.sortLocked()

	m.logger.Info("Sync queue loaded", "items", len(m.order), "interrupted", interrupted)

	return len(m.order)
}

// Cleanup removes COMPLETED items created before now-retention and
// returns how many were removed.
func (m *Manager) Cleanup(ctx context.Context, retention time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clock.Now().Add(-retention)

	kept := m.order[:0]
	removed := 0
	for _, item := range m.order {
		if item.Status == models.StatusCompleted && item.Timestamp.Before(cutoff) {
			delete(m.items, item.ID)
			removed++
			continue
		}
		kept = append(kept, item)
	}
	// обнуляем хвост, чтобы удаленные элементы не удерживались массивом
	for i := len(kept); i < len(m.order); i++ {
		m.order[i] = nil
	}
	m.order = kept

	if removed > 0 {
		m.logger.Info("Removed completed items past retention", "removed", removed, "cutoff", cutoff)
		m.persistLocked(ctx)
	}

	return removed
}

// Clear drops every item, in memory and in storage.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*models.SyncQueueItem)
	m.order = nil

	if err := m.store.ClearQueue(ctx); err != nil {
		m.logger.Error("Failed to clear persisted queue", "error", err)
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	m.logger.Info("Sync queue cleared")
	return nil
}

// Get returns a copy of the item with the given id
func (m *Manager) Get(id string) (*models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return item.Clone(), nil
}

// List returns copies of all items in queue order
func (m *Manager) List() []*models.SyncQueueItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.SyncQueueItem, 0, len(m.order))
	for _, item := range m.order {
		out = append(out, item.Clone())
	}
	return out
}

// Eligible returns copies of the items a sync pass may attempt at now:
// PENDING, or FAILED with retry budget left, whose backoff has elapsed.
// Dependencies are not checked here, Acquire does that atomically.
func (m *Manager) Eligible(now time.Time) []*models.SyncQueueItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.SyncQueueItem
	for _, item := range m.order {
		if item.Retriable() && item.ReadyAt(now) {
			out = append(out, item.Clone())
		}
	}
	return out
}

// HasWork reports whether any item could be attempted by a future pass.
func (m *Manager) HasWork() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.order {
		if item.Retriable() {
			return true
		}
	}
	return false
}

// AcquireResult описывает результат попытки взять элемент в работу
type AcquireResult int

const (
	// Acquired элемент переведен в IN_PROGRESS
	Acquired AcquireResult = iota
	// WaitingOnDependencies есть незавершенные зависимости, элемент не тронут
	WaitingOnDependencies
	// NotEligible элемент уже не в состоянии для попытки (обработан, удален и т.п.)
	NotEligible
)

// Acquire atomically checks that the item is still eligible and that every
// dependency is COMPLETED, and marks it IN_PROGRESS. The returned copy is the
// item as acquired. Dependencies that are no longer queued count as satisfied:
// only COMPLETED items are ever removed by the retention sweep.
func (m *Manager) Acquire(ctx context.Context, id string) (*models.SyncQueueItem, AcquireResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok || !item.Retriable() || !item.ReadyAt(m.clock.Now()) {
		return nil, NotEligible
	}

	for _, dep := range item.Dependencies {
		if depItem, ok := m.items[dep]; ok && depItem.Status != models.StatusCompleted {
			return nil, WaitingOnDependencies
		}
	}

	item.Status = models.StatusInProgress
	m.persistLocked(ctx)

	return item.Clone(), Acquired
}

// Update applies fn to the stored item under the queue lock and persists.
// fn must not change id, priority or timestamp.
func (m *Manager) Update(ctx context.Context, id string, fn func(item *models.SyncQueueItem) error) (*models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if err := fn(item); err != nil {
		return nil, err
	}

	m.persistLocked(ctx)
	return item.Clone(), nil
}

// RetryFailed moves FAILED items back to PENDING with a fresh retry budget.
// With no ids every FAILED item is reset. This is the only FAILED -> PENDING path.
func (m *Manager) RetryFailed(ctx context.Context, ids ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	targets := m.order
	if len(ids) > 0 {
		targets = make([]*models.SyncQueueItem, 0, len(ids))
		for _, id := range ids {
			if item, ok := m.items[id]; ok {
				targets = append(targets, item)
			}
		}
	}

	count := 0
	for _, item := range targets {
		if item.Status != models.StatusFailed {
			continue
		}
		item.Status = models.StatusPending
		item.RetryCount = 0
		item.NextAttemptAt = nil
		item.LastError = ""
		count++
	}

	if count > 0 {
		m.logger.Info("Reset failed items for retry", "count", count)
		m.persistLocked(ctx)
	}

	return count
}

// DecodePayload decodes the item's data with the manager codec
func (m *Manager) DecodePayload(item *models.SyncQueueItem) (map[string]any, error) {
	payload, err := codec.DecodeString(m.codec, item.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload of %s: %w", item.ID, err)
	}
	return payload, nil
}

// EncodePayload encodes payload with the manager codec
func (m *Manager) EncodePayload(payload map[string]any) (string, error) {
	return codec.EncodeString(m.codec, payload)
}

// Counts returns per-status counts and the latest COMPLETED timestamp
func (m *Manager) Counts() Counts {
	m.mu.Lock()
	defer m.mu.Unlock()

	var c Counts
	for _, item := range m.order {
		c.Total++
		switch item.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusCompleted:
			c.Completed++
			if c.LastSyncTime == nil || item.Timestamp.After(*c.LastSyncTime) {
				ts := item.Timestamp
				c.LastSyncTime = &ts
			}
		case models.StatusFailed:
			c.Failed++
		case models.StatusConflict:
			c.Conflict++
		}
	}
	return c
}

// Len returns the number of queued items
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}
