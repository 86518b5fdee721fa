package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/internal/client/storage"
	"github.com/iudanet/fieldsync/internal/models"
)

func TestPutAndGetEntity(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	entity := &models.Entity{
		Type:      "work_order",
		ID:        "wo-17",
		Version:   3,
		Data:      map[string]any{"site": "North depot", "priority": "high"},
		UpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.PutEntity(ctx, entity))

	got, err := store.GetEntity(ctx, "work_order", "wo-17")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, "North depot", got.Data["site"])
	assert.True(t, entity.UpdatedAt.Equal(got.UpdatedAt))

	// Перезапись
	entity.Version = 4
	require.NoError(t, store.PutEntity(ctx, entity))
	got, err = store.GetEntity(ctx, "work_order", "wo-17")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Version)
}

func TestGetEntity_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetEntity(context.Background(), "work_order", "missing")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestDeleteEntity(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.PutEntity(ctx, &models.Entity{Type: "task", ID: "1"}))
	require.NoError(t, store.DeleteEntity(ctx, "task", "1"))

	_, err := store.GetEntity(ctx, "task", "1")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	// Удаление отсутствующей записи не ошибка
	assert.NoError(t, store.DeleteEntity(ctx, "task", "1"))
}

func TestCacheKey_SeparatesTypes(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.PutEntity(ctx, &models.Entity{Type: "task", ID: "1", Version: 1}))
	require.NoError(t, store.PutEntity(ctx, &models.Entity{Type: "asset", ID: "1", Version: 7}))

	task, err := store.GetEntity(ctx, "task", "1")
	require.NoError(t, err)
	asset, err := store.GetEntity(ctx, "asset", "1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), task.Version)
	assert.Equal(t, int64(7), asset.Version)
}
