package storage

import (
	"context"

	"github.com/iudanet/fieldsync/internal/models"
)

//go:generate moq -out entity_mock.go . EntityStorage

// Upload содержимое, загруженное для сущности
type Upload struct {
	Content     []byte
	ContentType string
	SHA256      string
}

// EntityStorage defines persistence of versioned entities for the REST contract.
// Every successful write increments the entity version by one.
type EntityStorage interface {
	// CreateEntity stores an entity with version 1. If the id already exists
	// (including a deleted one) the fields are replaced and the version incremented.
	CreateEntity(ctx context.Context, entityType, entityID string, data map[string]any) (*models.Entity, error)

	// GetEntity retrieves an entity
	// Returns ErrEntityNotFound if entity doesn't exist or is deleted
	GetEntity(ctx context.Context, entityType, entityID string) (*models.Entity, error)

	// UpdateEntity replaces entity fields. If expectedVersion is not nil and
	// is behind the stored version, returns the current entity and ErrVersionConflict.
	// Returns ErrEntityNotFound if entity doesn't exist or is deleted
	UpdateEntity(ctx context.Context, entityType, entityID string, data map[string]any, expectedVersion *int64) (*models.Entity, error)

	// DeleteEntity marks entity as deleted and increments its version
	// Returns ErrEntityNotFound if entity doesn't exist or is already deleted
	DeleteEntity(ctx context.Context, entityType, entityID string) (*models.Entity, error)

	// SaveUpload stores uploaded content and records its metadata
	// (size, contentType, sha256) as the entity fields, creating the entity if needed
	SaveUpload(ctx context.Context, entityType, entityID string, upload *Upload) (*models.Entity, error)

	// GetUpload returns uploaded content
	// Returns ErrUploadNotFound if nothing was uploaded
	GetUpload(ctx context.Context, entityType, entityID string) (*Upload, error)
}
