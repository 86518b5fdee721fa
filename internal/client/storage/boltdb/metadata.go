package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/crypto"
)

const (
	keyLastSyncTimestamp = "last_sync_timestamp"
	keyPayloadSalt       = "payload_salt"
)

// SaveLastSyncTimestamp saves the time of the last finished sync pass
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Конвертируем int64 в bytes
		timestampBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(timestampBytes, uint64(timestamp))

		if err := bucket.Put([]byte(keyLastSyncTimestamp), timestampBytes); err != nil {
			return fmt.Errorf("failed to save last sync timestamp: %w", err)
		}

		return nil
	})
}

// GetLastSyncTimestamp retrieves the time of the last finished sync pass
// Returns 0 if no sync has been performed yet
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		timestampBytes := bucket.Get([]byte(keyLastSyncTimestamp))
		if len(timestampBytes) != 8 {
			// Если timestamp не найден, возвращаем 0 (первая синхронизация)
			return nil
		}

		timestamp = int64(binary.BigEndian.Uint64(timestampBytes))
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}

	return timestamp, nil
}

// GetOrCreateSalt returns the payload key salt, creating it inside the same
// write transaction on first use so concurrent callers observe one salt
func (s *Storage) GetOrCreateSalt(ctx context.Context) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var salt []byte

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if existing := bucket.Get([]byte(keyPayloadSalt)); len(existing) == crypto.SaltSize {
			salt = append([]byte(nil), existing...)
			return nil
		}

		generated, err := crypto.GenerateSalt()
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(keyPayloadSalt), generated); err != nil {
			return fmt.Errorf("failed to save salt: %w", err)
		}
		salt = generated
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get payload salt: %w", err)
	}

	return salt, nil
}
