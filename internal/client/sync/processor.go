package sync

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/fieldsync/internal/client/api"
	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

const (
	// DefaultRetryDelay базовая задержка backoff
	DefaultRetryDelay = 5 * time.Second
	// MaxBackoff верхняя граница задержки между попытками
	MaxBackoff = time.Hour
)

// Поля payload операции UPLOAD
const (
	UploadContentField     = "content"     // base64 содержимого
	UploadContentTypeField = "contentType" // MIME тип, необязательный
)

// Outcome результат одной попытки обработки элемента
type Outcome int

const (
	// OutcomeSkipped элемент уже не подлежит обработке
	OutcomeSkipped Outcome = iota
	// OutcomeWaiting зависимости еще не COMPLETED, элемент не тронут
	OutcomeWaiting
	// OutcomeCompleted удаленный вызов успешен
	OutcomeCompleted
	// OutcomeConflict обнаружен конфликт версий
	OutcomeConflict
	// OutcomeRetry попытка неудачна, элемент ждет backoff
	OutcomeRetry
	// OutcomeFailed бюджет попыток исчерпан
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWaiting:
		return "waiting"
	case OutcomeCompleted:
		return "completed"
	case OutcomeConflict:
		return "conflict"
	case OutcomeRetry:
		return "retry"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// conflictError означает, что сервер хранит более новую версию сущности
type conflictError struct {
	serverData    map[string]any
	serverVersion int64
}

func (e *conflictError) Error() string {
	return fmt.Sprintf("server version %d is ahead of local version", e.serverVersion)
}

// Processor выполняет одну мутацию из очереди против удаленного хранилища
type Processor struct {
	queue      *queue.Manager
	remote     Remote
	cache      storage.CacheStorage
	clock      queue.Clock
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewProcessor создает Processor; cache может быть nil
func NewProcessor(q *queue.Manager, remote Remote, cache storage.CacheStorage, clock queue.Clock, retryDelay time.Duration, logger *slog.Logger) *Processor {
	if clock == nil {
		clock = queue.SystemClock{}
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Processor{
		queue:      q,
		remote:     remote,
		cache:      cache,
		clock:      clock,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Backoff returns retryDelay × 2^retryCount, saturated at MaxBackoff.
func (p *Processor) Backoff(retryCount int) time.Duration {
	d := p.retryDelay
	for i := 0; i < retryCount && d < MaxBackoff; i++ {
		d *= 2
	}
	return min(d, MaxBackoff)
}

// Process makes one attempt at the item with the given id.
func (p *Processor) Process(ctx context.Context, id string) Outcome {
	item, res := p.queue.Acquire(ctx, id)
	switch res {
	case queue.WaitingOnDependencies:
		p.logger.Debug("Item waits for dependencies", "item_id", id)
		return OutcomeWaiting
	case queue.NotEligible:
		return OutcomeSkipped
	}

	log := p.logger.With(
		"item_id", item.ID,
		"operation", item.Operation,
		"entity_type", item.EntityType,
		"entity_id", item.EntityID)

	payload, err := p.queue.DecodePayload(item)
	if err != nil {
		return p.fail(ctx, log, item, err)
	}

	data, err := p.dispatch(ctx, item, payload)
	if err != nil {
		var ce *conflictError
		if errors.As(err, &ce) {
			return p.conflict(ctx, log, item, ce)
		}
		return p.fail(ctx, log, item, err)
	}

	return p.complete(ctx, log, item, data)
}

func (p *Processor) dispatch(ctx context.Context, item *models.SyncQueueItem, payload map[string]any) (map[string]any, error) {
	switch item.Operation {
	case models.OperationCreate:
		if _, ok := payload["id"]; !ok {
			payload["id"] = item.EntityID
		}
		return p.remote.Create(ctx, item.EntityType, payload)

	case models.OperationUpdate:
		return p.update(ctx, item, payload)

	case models.OperationDelete:
		data, err := p.remote.Delete(ctx, item.EntityType, item.EntityID)
		if api.IsStatus(err, http.StatusNotFound) {
			// сущность уже удалена на сервере
			return nil, nil
		}
		return data, err

	case models.OperationUpload:
		content, contentType, err := uploadContent(payload)
		if err != nil {
			return nil, err
		}
		return p.remote.Upload(ctx, item.EntityType, item.EntityID, content, contentType)
	}

	return nil, fmt.Errorf("unsupported operation %q", item.Operation)
}

// update сначала запрашивает версию на сервере; если она новее локальной - конфликт
func (p *Processor) update(ctx context.Context, item *models.SyncQueueItem, payload map[string]any) (map[string]any, error) {
	serverVersion, err := p.remote.GetVersion(ctx, item.EntityType, item.EntityID)
	switch {
	case api.IsStatus(err, http.StatusNotFound):
		serverVersion = 0
	case err != nil:
		return nil, err
	}

	if serverVersion > item.LocalVersion {
		serverData, err := p.remote.Get(ctx, item.EntityType, item.EntityID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch conflicting server record: %w", err)
		}
		return nil, &conflictError{serverVersion: serverVersion, serverData: serverData}
	}

	payload[models.VersionField] = item.LocalVersion
	data, err := p.remote.Update(ctx, item.EntityType, item.EntityID, payload, false)
	if err != nil {
		// сервер изменился между проверкой версии и записью
		var se *api.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusConflict && se.Data != nil {
			v, _ := models.VersionOf(se.Data)
			return nil, &conflictError{serverVersion: v, serverData: se.Data}
		}
		return nil, err
	}
	return data, nil
}

func (p *Processor) complete(ctx context.Context, log *slog.Logger, item *models.SyncQueueItem, data map[string]any) Outcome {
	version, ok := models.VersionOf(data)
	if !ok {
		version = item.LocalVersion + 1
	}

	p.applyToCache(ctx, log, item, data, version)

	_, err := p.queue.Update(ctx, item.ID, func(it *models.SyncQueueItem) error {
		it.Status = models.StatusCompleted
		it.SetServerVersion(version)
		it.ConflictData = nil
		it.NextAttemptAt = nil
		it.LastError = ""
		return nil
	})
	if err != nil {
		log.Warn("Completed item vanished from queue", "error", err)
	}

	log.Info("Item synced", "server_version", version)
	return OutcomeCompleted
}

func (p *Processor) conflict(ctx context.Context, log *slog.Logger, item *models.SyncQueueItem, ce *conflictError) Outcome {
	_, err := p.queue.Update(ctx, item.ID, func(it *models.SyncQueueItem) error {
		it.Status = models.StatusConflict
		it.SetServerVersion(ce.serverVersion)
		it.ConflictData = models.CloneData(ce.serverData)
		it.NextAttemptAt = nil
		return nil
	})
	if err != nil {
		log.Warn("Conflicted item vanished from queue", "error", err)
	}

	log.Warn("Version conflict detected",
		"local_version", item.LocalVersion,
		"server_version", ce.serverVersion)
	return OutcomeConflict
}

// fail расходует одну попытку; по исчерпании бюджета элемент становится FAILED
func (p *Processor) fail(ctx context.Context, log *slog.Logger, item *models.SyncQueueItem, cause error) Outcome {
	outcome := OutcomeRetry
	var retryCount int
	var next time.Time

	_, err := p.queue.Update(ctx, item.ID, func(it *models.SyncQueueItem) error {
		it.RetryCount++
		it.LastError = cause.Error()
		retryCount = it.RetryCount

		if it.RetryCount >= it.MaxRetries {
			it.Status = models.StatusFailed
			it.NextAttemptAt = nil
			outcome = OutcomeFailed
			return nil
		}

		it.Status = models.StatusPending
		next = p.clock.Now().Add(p.Backoff(it.RetryCount))
		it.NextAttemptAt = &next
		return nil
	})
	if err != nil {
		log.Warn("Failed item vanished from queue", "error", err)
		return OutcomeSkipped
	}

	permanent := !api.IsTransient(cause)
	if outcome == OutcomeFailed {
		log.Error("Item failed permanently",
			"error", cause,
			"retry_count", retryCount,
			"permanent", permanent)
	} else {
		log.Warn("Item sync failed, will retry",
			"error", cause,
			"retry_count", retryCount,
			"next_attempt_at", next,
			"permanent", permanent)
	}

	return outcome
}

// applyToCache обновляет локальную копию сущности; ошибки кэша не влияют на статус элемента
func (p *Processor) applyToCache(ctx context.Context, log *slog.Logger, item *models.SyncQueueItem, data map[string]any, version int64) {
	if p.cache == nil {
		return
	}

	var err error
	if item.Operation == models.OperationDelete {
		err = p.cache.DeleteEntity(ctx, item.EntityType, item.EntityID)
	} else {
		err = p.cache.PutEntity(ctx, entityFromRepresentation(item.EntityType, item.EntityID, data, version, p.clock.Now()))
	}
	if err != nil {
		log.Warn("Failed to update local entity cache", "error", err)
	}
}

// entityFromRepresentation строит запись кэша из ответа сервера
func entityFromRepresentation(entityType, entityID string, data map[string]any, version int64, now time.Time) *models.Entity {
	fields := models.CloneData(data)
	if fields == nil {
		fields = make(map[string]any)
	}
	delete(fields, "id")
	delete(fields, models.VersionField)

	return &models.Entity{
		Type:      entityType,
		ID:        entityID,
		Data:      fields,
		Version:   version,
		UpdatedAt: now,
	}
}

func uploadContent(payload map[string]any) ([]byte, string, error) {
	raw, ok := payload[UploadContentField].(string)
	if !ok {
		return nil, "", fmt.Errorf("upload payload has no %q field", UploadContentField)
	}
	content, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode upload content: %w", err)
	}
	contentType, _ := payload[UploadContentTypeField].(string)
	return content, contentType, nil
}
