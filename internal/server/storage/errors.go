package storage

import "errors"

// Common storage errors
var (
	// ErrEntityNotFound indicates that entity does not exist or is deleted
	ErrEntityNotFound = errors.New("entity not found")

	// ErrVersionConflict indicates that the write was based on an outdated version
	ErrVersionConflict = errors.New("version conflict")

	// ErrUploadNotFound indicates that no content was uploaded for the entity
	ErrUploadNotFound = errors.New("upload not found")
)
