package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/iudanet/fieldsync/internal/client/api"
	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

var (
	// ErrInvalidState indicates that the item is not in CONFLICT
	ErrInvalidState = errors.New("item is not in conflict")

	// ErrUnknownResolution indicates an unsupported resolution name
	ErrUnknownResolution = errors.New("unknown conflict resolution")
)

// Resolution способ разрешения конфликта
type Resolution string

const (
	ResolutionServer Resolution = "server"
	ResolutionClient Resolution = "client"
	ResolutionMerge  Resolution = "merge"
)

// ParseResolution проверяет имя способа разрешения
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case ResolutionServer, ResolutionClient, ResolutionMerge:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResolution, s)
}

// Policy политика автоматического разрешения конфликтов
type Policy string

const (
	PolicyServer Policy = "server"
	PolicyClient Policy = "client"
	PolicyManual Policy = "manual"
)

// Valid reports whether p is a known policy
func (p Policy) Valid() bool {
	switch p {
	case PolicyServer, PolicyClient, PolicyManual:
		return true
	}
	return false
}

// Resolution returns the resolution the policy applies automatically.
// Manual has none.
func (p Policy) Resolution() (Resolution, bool) {
	switch p {
	case PolicyServer:
		return ResolutionServer, true
	case PolicyClient:
		return ResolutionClient, true
	}
	return "", false
}

// Resolver разрешает конфликты элементов очереди
type Resolver struct {
	queue  *queue.Manager
	remote Remote
	cache  storage.CacheStorage
	clock  queue.Clock
	logger *slog.Logger
	// resolving элементы, для которых уже идет Resolve
	resolving map[string]struct{}
	mu        sync.Mutex
}

// NewResolver создает Resolver; cache может быть nil
func NewResolver(q *queue.Manager, remote Remote, cache storage.CacheStorage, clock queue.Clock, logger *slog.Logger) *Resolver {
	if clock == nil {
		clock = queue.SystemClock{}
	}
	return &Resolver{
		queue:     q,
		remote:    remote,
		cache:     cache,
		clock:     clock,
		logger:    logger,
		resolving: make(map[string]struct{}),
	}
}

// claim закрепляет элемент за одним Resolve до release
func (r *Resolver) claim(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.resolving[id]; busy {
		return false
	}
	r.resolving[id] = struct{}{}
	return true
}

func (r *Resolver) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resolving, id)
}

// Resolve settles a CONFLICT item. server applies the captured server record
// locally; client force-pushes the local payload; merge overlays local fields
// on the server record, keeps the server version and pushes the result.
// On a remote error the item stays in CONFLICT. A second Resolve of the same
// item while the first is still running fails with ErrInvalidState without
// touching the remote.
func (r *Resolver) Resolve(ctx context.Context, id string, resolution Resolution) (*models.SyncQueueItem, error) {
	if !r.claim(id) {
		return nil, fmt.Errorf("%w: %s is already being resolved", ErrInvalidState, id)
	}
	defer r.release(id)

	item, err := r.queue.Get(id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.StatusConflict {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidState, id, item.Status)
	}

	log := r.logger.With(
		"item_id", item.ID,
		"entity_type", item.EntityType,
		"entity_id", item.EntityID,
		"resolution", resolution)

	var (
		applied map[string]any
		data    string
	)

	switch resolution {
	case ResolutionServer:
		applied = models.CloneData(item.ConflictData)
		// локальный payload отбрасывается, в записи остается примененная серверная версия
		data, err = r.queue.EncodePayload(applied)
		if err != nil {
			return nil, err
		}

	case ResolutionClient:
		local, err := r.queue.DecodePayload(item)
		if err != nil {
			return nil, err
		}
		applied, err = r.remote.Update(ctx, item.EntityType, item.EntityID, local, true)
		if err != nil {
			log.Warn("Client-wins push failed, item stays in conflict", "error", err)
			return nil, fmt.Errorf("failed to push local version: %w", err)
		}

	case ResolutionMerge:
		local, err := r.queue.DecodePayload(item)
		if err != nil {
			return nil, err
		}
		merged := MergeShallow(item.ConflictData, local)
		applied, err = r.remote.Update(ctx, item.EntityType, item.EntityID, merged, false)
		if err != nil {
			var se *api.StatusError
			if errors.As(err, &se) && se.StatusCode == http.StatusConflict && se.Data != nil {
				r.refreshConflict(ctx, id, se.Data)
			}
			log.Warn("Merged push failed, item stays in conflict", "error", err)
			return nil, fmt.Errorf("failed to push merged version: %w", err)
		}
		if data, err = r.queue.EncodePayload(merged); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResolution, resolution)
	}

	version, ok := models.VersionOf(applied)
	if !ok {
		base := item.LocalVersion
		if item.ServerVersion != nil {
			base = *item.ServerVersion
		}
		if resolution == ResolutionServer {
			version = base
		} else {
			version = base + 1
		}
	}

	resolved, err := r.queue.Update(ctx, id, func(it *models.SyncQueueItem) error {
		if it.Status != models.StatusConflict {
			return fmt.Errorf("%w: %s is %s", ErrInvalidState, id, it.Status)
		}
		it.Status = models.StatusCompleted
		it.SetServerVersion(version)
		it.ConflictData = nil
		it.LastError = ""
		if data != "" {
			it.Data = data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		entity := entityFromRepresentation(item.EntityType, item.EntityID, applied, version, r.clock.Now())
		if err := r.cache.PutEntity(ctx, entity); err != nil {
			log.Warn("Failed to update local entity cache", "error", err)
		}
	}

	log.Info("Conflict resolved", "server_version", version)
	return resolved, nil
}

// refreshConflict заменяет снимок сервера, если тот снова изменился во время merge
func (r *Resolver) refreshConflict(ctx context.Context, id string, serverData map[string]any) {
	_, err := r.queue.Update(ctx, id, func(it *models.SyncQueueItem) error {
		if it.Status != models.StatusConflict {
			return nil
		}
		it.ConflictData = models.CloneData(serverData)
		if v, ok := models.VersionOf(serverData); ok {
			it.SetServerVersion(v)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("Failed to refresh conflict snapshot", "item_id", id, "error", err)
	}
}

// MergeShallow overlays local fields on top of the server snapshot.
// The server's version field wins over the local one.
func MergeShallow(server, local map[string]any) map[string]any {
	merged := models.CloneData(server)
	if merged == nil {
		merged = make(map[string]any)
	}
	for k, v := range local {
		if k == models.VersionField {
			continue
		}
		merged[k] = v
	}
	if v, ok := server[models.VersionField]; ok {
		merged[models.VersionField] = v
	} else {
		delete(merged, models.VersionField)
	}
	return merged
}
