// Package sync drives the offline mutation queue against the remote store:
// the orchestrator (Engine), the per-item processor, conflict resolution,
// stats fan-out and the trigger sources that start sync passes.
package sync

import (
	"context"

	"github.com/iudanet/fieldsync/internal/client/api"
)

//go:generate moq -out remote_mock.go . Remote

// Remote определяет операции удаленного хранилища, нужные движку синхронизации.
// Ответы содержат представление сущности (поля плюс id и version).
type Remote interface {
	Create(ctx context.Context, entityType string, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, entityType, entityID string, payload map[string]any, force bool) (map[string]any, error)
	Delete(ctx context.Context, entityType, entityID string) (map[string]any, error)
	Get(ctx context.Context, entityType, entityID string) (map[string]any, error)
	GetVersion(ctx context.Context, entityType, entityID string) (int64, error)
	Upload(ctx context.Context, entityType, entityID string, content []byte, contentType string) (map[string]any, error)
}

var _ Remote = (*api.Client)(nil)
