package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

// keyQueue хранит всю очередь одним JSON массивом, чтобы порядок
// восстанавливался ровно таким, каким был сохранен
var keyQueue = []byte("items")

// SaveQueue replaces the persisted queue in a single transaction
func (s *Storage) SaveQueue(ctx context.Context, items []*models.SyncQueueItem) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if items == nil {
		items = []*models.SyncQueueItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal sync queue: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketQueue)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		if err := bucket.Put(keyQueue, data); err != nil {
			return fmt.Errorf("failed to save queue: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// LoadQueue reads the persisted queue.
// Undecodable data is reported as storage.ErrQueueCorrupted.
func (s *Storage) LoadQueue(ctx context.Context) ([]*models.SyncQueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var raw []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}

		// bbolt value живет только внутри транзакции, копируем
		if v := bucket.Get(keyQueue); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	if raw == nil {
		return []*models.SyncQueueItem{}, nil
	}

	var items []*models.SyncQueueItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrQueueCorrupted, err)
	}

	// null элементы возможны только в поврежденных данных
	for i, item := range items {
		if item == nil || item.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", storage.ErrQueueCorrupted, i)
		}
	}

	return items, nil
}

// ClearQueue removes the persisted queue
func (s *Storage) ClearQueue(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(keyQueue)
	})

	if err != nil {
		return fmt.Errorf("clear transaction failed: %w", err)
	}

	return nil
}
