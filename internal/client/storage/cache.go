package storage

import (
	"context"

	"github.com/iudanet/fieldsync/internal/models"
)

//go:generate moq -out cache_mock.go . CacheStorage

// CacheStorage defines the local entity cache the sync engine writes
// server representations into
type CacheStorage interface {
	// PutEntity stores or replaces the cached copy of an entity
	PutEntity(ctx context.Context, entity *models.Entity) error

	// GetEntity returns the cached copy of an entity
	// Returns ErrEntityNotFound if the entity is not cached
	GetEntity(ctx context.Context, entityType, entityID string) (*models.Entity, error)

	// DeleteEntity removes the cached copy; missing entities are not an error
	DeleteEntity(ctx context.Context, entityType, entityID string) error
}
