package storage

import "errors"

// Common client storage errors
var (
	// ErrEntityNotFound indicates that entity is not present in the local cache
	ErrEntityNotFound = errors.New("entity not found in cache")

	// ErrQueueCorrupted indicates that the persisted queue cannot be decoded
	ErrQueueCorrupted = errors.New("persisted queue is corrupted")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
