package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

// cacheKey строит ключ "entityType/entityID"
func cacheKey(entityType, entityID string) []byte {
	return []byte(entityType + "/" + entityID)
}

// PutEntity stores the server representation of an entity in the local cache
func (s *Storage) PutEntity(ctx context.Context, entity *models.Entity) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketCache)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return bucket.Put(cacheKey(entity.Type, entity.ID), data)
	})

	if err != nil {
		return fmt.Errorf("failed to cache entity %s/%s: %w", entity.Type, entity.ID, err)
	}

	return nil
}

// GetEntity returns the cached copy of an entity
func (s *Storage) GetEntity(ctx context.Context, entityType, entityID string) (*models.Entity, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entity *models.Entity

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return storage.ErrEntityNotFound
		}

		data := bucket.Get(cacheKey(entityType, entityID))
		if data == nil {
			return storage.ErrEntityNotFound
		}

		entity = &models.Entity{}
		if err := json.Unmarshal(data, entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return entity, nil
}

// DeleteEntity removes an entity from the local cache
func (s *Storage) DeleteEntity(ctx context.Context, entityType, entityID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(cacheKey(entityType, entityID))
	})

	if err != nil {
		return fmt.Errorf("failed to delete cached entity: %w", err)
	}

	return nil
}
