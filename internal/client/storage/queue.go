package storage

import (
	"context"

	"github.com/iudanet/fieldsync/internal/models"
)

//go:generate moq -out queue_mock.go . QueueStorage

// QueueStorage defines durable persistence of the sync queue.
// The queue is written and read as a whole, in queue order.
type QueueStorage interface {
	// SaveQueue replaces the stored queue with items, preserving their order
	SaveQueue(ctx context.Context, items []*models.SyncQueueItem) error

	// LoadQueue returns the stored queue in the order it was saved
	// Returns an empty slice if nothing was stored yet
	// Returns ErrQueueCorrupted if the stored representation cannot be decoded
	LoadQueue(ctx context.Context) ([]*models.SyncQueueItem, error)

	// ClearQueue removes the stored queue
	ClearQueue(ctx context.Context) error
}
