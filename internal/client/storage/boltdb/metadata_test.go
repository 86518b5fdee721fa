package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/crypto"
)

func TestSaveAndGetLastSyncTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// Изначально, если timestamp не сохранён, ожидаем 0
	ts, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)

	var expectedTS int64 = 1767261600
	require.NoError(t, store.SaveLastSyncTimestamp(ctx, expectedTS))

	gotTS, err := store.GetLastSyncTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, expectedTS, gotTS)
}

func TestMetadata_MissingBucket(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	}))

	err := store.SaveLastSyncTimestamp(ctx, 1)
	assert.Error(t, err)

	_, err = store.GetLastSyncTimestamp(ctx)
	assert.Error(t, err)

	_, err = store.GetOrCreateSalt(ctx)
	assert.Error(t, err)
}

func TestGetOrCreateSalt_Stable(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	first, err := store.GetOrCreateSalt(ctx)
	require.NoError(t, err)
	assert.Len(t, first, crypto.SaltSize)

	second, err := store.GetOrCreateSalt(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMetadata_Closed(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveLastSyncTimestamp(ctx, 1), storage.ErrStorageClosed)
	_, err := store.GetOrCreateSalt(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
