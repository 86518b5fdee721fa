package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

func testItems() []*models.SyncQueueItem {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	conflicted := &models.SyncQueueItem{
		ID:           "task_2_2",
		Operation:    models.OperationUpdate,
		EntityType:   "task",
		EntityID:     "2",
		Data:         "e30=",
		Timestamp:    base.Add(time.Second),
		Status:       models.StatusConflict,
		MaxRetries:   3,
		Priority:     5,
		Dependencies: []string{},
		LocalVersion: 1,
		ConflictData: map[string]any{"version": 2.0, "title": "server"},
	}
	conflicted.SetServerVersion(2)

	return []*models.SyncQueueItem{
		conflicted,
		{
			ID:           "task_1_1",
			Operation:    models.OperationCreate,
			EntityType:   "task",
			EntityID:     "1",
			Data:         "e30=",
			Timestamp:    base,
			Status:       models.StatusPending,
			MaxRetries:   3,
			Priority:     0,
			Dependencies: []string{"task_2_2"},
			LocalVersion: 0,
		},
	}
}

func TestSaveAndLoadQueue(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	items := testItems()
	require.NoError(t, store.SaveQueue(ctx, items))

	loaded, err := store.LoadQueue(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Порядок сохраняется как есть
	assert.Equal(t, "task_2_2", loaded[0].ID)
	assert.Equal(t, "task_1_1", loaded[1].ID)

	assert.Equal(t, models.StatusConflict, loaded[0].Status)
	require.NotNil(t, loaded[0].ServerVersion)
	assert.Equal(t, int64(2), *loaded[0].ServerVersion)
	assert.Equal(t, "server", loaded[0].ConflictData["title"])
	assert.True(t, items[0].Timestamp.Equal(loaded[0].Timestamp))
	assert.Equal(t, []string{"task_2_2"}, loaded[1].Dependencies)
}

func TestSaveQueue_Replaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveQueue(ctx, testItems()))
	require.NoError(t, store.SaveQueue(ctx, testItems()[:1]))

	loaded, err := store.LoadQueue(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestLoadQueue_Empty(t *testing.T) {
	store := newTestStorage(t)

	loaded, err := store.LoadQueue(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestLoadQueue_Corrupted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "wrong shape", raw: `{"id":"x"}`},
		{name: "null item", raw: `[null]`},
		{name: "item without id", raw: `[{"operation":"CREATE"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStorage(t)
			require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
				return tx.Bucket(bucketQueue).Put(keyQueue, []byte(tt.raw))
			}))

			loaded, err := store.LoadQueue(context.Background())
			assert.ErrorIs(t, err, storage.ErrQueueCorrupted)
			assert.Nil(t, loaded)
		})
	}
}

func TestClearQueue(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveQueue(ctx, testItems()))
	require.NoError(t, store.ClearQueue(ctx))

	loaded, err := store.LoadQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestQueue_Closed(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveQueue(ctx, nil), storage.ErrStorageClosed)
	_, err := store.LoadQueue(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.ClearQueue(ctx), storage.ErrStorageClosed)
}
