package models

import (
	"fmt"
	"time"
)

// Operation тип мутации, буферизованной в очереди синхронизации
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
	OperationUpload Operation = "UPLOAD"
)

// Valid reports whether op is one of the known operations
func (op Operation) Valid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete, OperationUpload:
		return true
	}
	return false
}

// ItemStatus состояние элемента очереди
type ItemStatus string

const (
	StatusPending    ItemStatus = "PENDING"
	StatusInProgress ItemStatus = "IN_PROGRESS"
	StatusCompleted  ItemStatus = "COMPLETED"
	StatusFailed     ItemStatus = "FAILED"
	StatusConflict   ItemStatus = "CONFLICT"
)

// SyncQueueItem представляет одну локальную мутацию, ожидающую синхронизации с сервером.
// Это единственная персистентная сущность очереди.
type SyncQueueItem struct {
	Timestamp     time.Time      `json:"timestamp"`               // Timestamp время создания (вторичный ключ сортировки)
	NextAttemptAt *time.Time     `json:"nextAttemptAt,omitempty"` // NextAttemptAt до этого момента элемент ждет backoff
	ServerVersion *int64         `json:"serverVersion,omitempty"` // ServerVersion версия на сервере, если уже известна
	ConflictData  map[string]any `json:"conflictData,omitempty"`  // ConflictData снимок серверной записи при конфликте
	ID            string         `json:"id"`                      // ID стабильный идентификатор элемента
	Operation     Operation      `json:"operation"`               // Operation CREATE/UPDATE/DELETE/UPLOAD
	EntityType    string         `json:"entityType"`              // EntityType тип целевого ресурса
	EntityID      string         `json:"entityId"`                // EntityID идентификатор целевого ресурса
	Data          string         `json:"data"`                    // Data закодированный кодеком payload
	Status        ItemStatus     `json:"status"`                  // Status текущее состояние
	LastError     string         `json:"lastError,omitempty"`     // LastError текст последней ошибки
	Dependencies  []string       `json:"dependencies"`            // Dependencies id элементов, которые должны быть COMPLETED раньше
	RetryCount    int            `json:"retryCount"`              // RetryCount число неудачных попыток
	MaxRetries    int            `json:"maxRetries"`              // MaxRetries бюджет попыток
	Priority      int            `json:"priority"`                // Priority больше - раньше
	LocalVersion  int64          `json:"localVersion"`            // LocalVersion версия, зафиксированная при постановке в очередь
}

// NewItemID builds the item id from entity type, entity id and creation time.
func NewItemID(entityType, entityID string, createdAt time.Time) string {
	return fmt.Sprintf("%s_%s_%d", entityType, entityID, createdAt.UnixMilli())
}

// Before сравнивает два элемента в порядке очереди:
// сначала priority по убыванию, затем timestamp по возрастанию.
// Равные ключи не упорядочены, стабильность обеспечивает сортировка.
func (i *SyncQueueItem) Before(other *SyncQueueItem) bool {
	if i.Priority != other.Priority {
		return i.Priority > other.Priority
	}
	return i.Timestamp.Before(other.Timestamp)
}

// Retriable reports whether the orchestrator may still pick the item up.
func (i *SyncQueueItem) Retriable() bool {
	switch i.Status {
	case StatusPending:
		return true
	case StatusFailed:
		return i.RetryCount < i.MaxRetries
	}
	return false
}

// Terminal reports whether the item reached a state no automatic pass changes.
func (i *SyncQueueItem) Terminal() bool {
	return i.Status == StatusCompleted || (i.Status == StatusFailed && i.RetryCount >= i.MaxRetries)
}

// ReadyAt reports whether the backoff gate has passed at now.
func (i *SyncQueueItem) ReadyAt(now time.Time) bool {
	return i.NextAttemptAt == nil || !now.Before(*i.NextAttemptAt)
}

// Clone создает глубокую копию элемента очереди
func (i *SyncQueueItem) Clone() *SyncQueueItem {
	c := *i

	if i.Dependencies != nil {
		c.Dependencies = make([]string, len(i.Dependencies))
		copy(c.Dependencies, i.Dependencies)
	}
	if i.ServerVersion != nil {
		v := *i.ServerVersion
		c.ServerVersion = &v
	}
	if i.NextAttemptAt != nil {
		t := *i.NextAttemptAt
		c.NextAttemptAt = &t
	}
	if i.ConflictData != nil {
		c.ConflictData = CloneData(i.ConflictData)
	}

	return &c
}

// SetServerVersion stores v as the known server version.
func (i *SyncQueueItem) SetServerVersion(v int64) {
	i.ServerVersion = &v
}

// CloneData копирует map верхнего уровня и вложенные map/slice значения
func CloneData(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
