package storage

import "context"

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTimestamp saves the unix time of the last finished sync pass
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the unix time of the last finished sync pass
	// Returns 0 if no sync has been performed yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)

	// GetOrCreateSalt returns the payload key salt, generating and storing it on first use
	GetOrCreateSalt(ctx context.Context) ([]byte, error)
}
