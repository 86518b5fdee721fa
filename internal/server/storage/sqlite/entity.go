package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fieldsync/internal/models"
	"github.com/iudanet/fieldsync/internal/server/storage"
)

// Поля метаданных upload в представлении сущности
const (
	UploadSizeField        = "size"
	UploadContentTypeField = "contentType"
	UploadSHA256Field      = "sha256"
)

var _ storage.EntityStorage = (*Storage)(nil)

// CreateEntity stores a new entity or replaces an existing one
func (s *Storage) CreateEntity(ctx context.Context, entityType, entityID string, data map[string]any) (*models.Entity, error) {
	var result *models.Entity

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getEntityTx(ctx, tx, entityType, entityID)
		if err != nil && !errors.Is(err, storage.ErrEntityNotFound) {
			return err
		}

		now := s.now()
		if current == nil {
			result = &models.Entity{
				Type:      entityType,
				ID:        entityID,
				Data:      fieldsOnly(data),
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			return insertEntityTx(ctx, tx, result)
		}

		current.Data = fieldsOnly(data)
		current.Version++
		current.Deleted = false
		current.UpdatedAt = now
		result = current
		return updateEntityTx(ctx, tx, current)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	return result, nil
}

// GetEntity retrieves a live entity
func (s *Storage) GetEntity(ctx context.Context, entityType, entityID string) (*models.Entity, error) {
	entity, err := getEntityTx(ctx, s.db, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if entity.Deleted {
		return nil, storage.ErrEntityNotFound
	}
	return entity, nil
}

// UpdateEntity replaces fields of a live entity with an optional version precondition
func (s *Storage) UpdateEntity(ctx context.Context, entityType, entityID string, data map[string]any, expectedVersion *int64) (*models.Entity, error) {
	var result *models.Entity

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getEntityTx(ctx, tx, entityType, entityID)
		if err != nil {
			return err
		}
		if current.Deleted {
			return storage.ErrEntityNotFound
		}

		if expectedVersion != nil && *expectedVersion < current.Version {
			result = current
			return storage.ErrVersionConflict
		}

		current.Data = fieldsOnly(data)
		current.Version++
		current.UpdatedAt = s.now()
		result = current
		return updateEntityTx(ctx, tx, current)
	})
	if errors.Is(err, storage.ErrVersionConflict) {
		return result, err
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteEntity soft-deletes a live entity
func (s *Storage) DeleteEntity(ctx context.Context, entityType, entityID string) (*models.Entity, error) {
	var result *models.Entity

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getEntityTx(ctx, tx, entityType, entityID)
		if err != nil {
			return err
		}
		if current.Deleted {
			return storage.ErrEntityNotFound
		}

		current.Deleted = true
		current.Version++
		current.UpdatedAt = s.now()
		result = current
		if err := updateEntityTx(ctx, tx, current); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM uploads WHERE entity_type = ? AND entity_id = ?`, entityType, entityID); err != nil {
			return fmt.Errorf("failed to delete upload: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SaveUpload stores content and exposes its metadata as entity fields
func (s *Storage) SaveUpload(ctx context.Context, entityType, entityID string, upload *storage.Upload) (*models.Entity, error) {
	var result *models.Entity

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getEntityTx(ctx, tx, entityType, entityID)
		if err != nil && !errors.Is(err, storage.ErrEntityNotFound) {
			return err
		}

		now := s.now()
		fields := map[string]any{
			UploadSizeField:        int64(len(upload.Content)),
			UploadContentTypeField: upload.ContentType,
			UploadSHA256Field:      upload.SHA256,
		}

		if current == nil {
			result = &models.Entity{
				Type:      entityType,
				ID:        entityID,
				Data:      fields,
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := insertEntityTx(ctx, tx, result); err != nil {
				return err
			}
		} else {
			if current.Data == nil {
				current.Data = make(map[string]any)
			}
			for k, v := range fields {
				current.Data[k] = v
			}
			current.Version++
			current.Deleted = false
			current.UpdatedAt = now
			result = current
			if err := updateEntityTx(ctx, tx, current); err != nil {
				return err
			}
		}

		content := upload.Content
		if content == nil {
			content = []byte{}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO uploads (entity_type, entity_id, content, content_type, sha256, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (entity_type, entity_id) DO UPDATE SET
				content = excluded.content,
				content_type = excluded.content_type,
				sha256 = excluded.sha256,
				created_at = excluded.created_at
		`, entityType, entityID, content, upload.ContentType, upload.SHA256, now.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to store upload: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	return result, nil
}

// GetUpload returns stored content
func (s *Storage) GetUpload(ctx context.Context, entityType, entityID string) (*storage.Upload, error) {
	upload := &storage.Upload{}
	err := s.db.QueryRowContext(ctx, `
		SELECT content, content_type, sha256
		FROM uploads
		WHERE entity_type = ? AND entity_id = ?
	`, entityType, entityID).Scan(&upload.Content, &upload.ContentType, &upload.SHA256)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUploadNotFound
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return upload, nil
}

// queryer общий интерфейс *sql.DB и *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEntityTx(ctx context.Context, q queryer, entityType, entityID string) (*models.Entity, error) {
	query := `
		SELECT entity_type, entity_id, data, version, deleted, created_at, updated_at
		FROM entities
		WHERE entity_type = ? AND entity_id = ?
	`

	entity := &models.Entity{}
	var rawData string
	var deleted int
	var createdAt, updatedAt int64

	err := q.QueryRowContext(ctx, query, entityType, entityID).Scan(
		&entity.Type,
		&entity.ID,
		&rawData,
		&entity.Version,
		&deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	entity.Data, err = decodeData(rawData)
	if err != nil {
		return nil, err
	}
	entity.Deleted = intToBool(deleted)
	entity.CreatedAt = unixMilliToTime(createdAt)
	entity.UpdatedAt = unixMilliToTime(updatedAt)

	return entity, nil
}

func insertEntityTx(ctx context.Context, tx *sql.Tx, e *models.Entity) error {
	raw, err := encodeData(e.Data)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entities (entity_type, entity_id, data, version, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.Type, e.ID, raw, e.Version, boolToInt(e.Deleted), e.CreatedAt.UnixMilli(), e.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert entity: %w", err)
	}
	return nil
}

func updateEntityTx(ctx context.Context, tx *sql.Tx, e *models.Entity) error {
	raw, err := encodeData(e.Data)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE entities
		SET data = ?, version = ?, deleted = ?, updated_at = ?
		WHERE entity_type = ? AND entity_id = ?
	`, raw, e.Version, boolToInt(e.Deleted), e.UpdatedAt.UnixMilli(), e.Type, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}
	return nil
}

// withTx выполняет fn в транзакции; ошибка fn откатывает транзакцию
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// fieldsOnly убирает id и version: они хранятся в отдельных колонках
func fieldsOnly(data map[string]any) map[string]any {
	out := models.CloneData(data)
	if out == nil {
		out = make(map[string]any)
	}
	delete(out, "id")
	delete(out, models.VersionField)
	return out
}

func encodeData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entity data: %w", err)
	}
	return string(raw), nil
}

func decodeData(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity data: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

// Helper functions for bool/int conversion
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func unixMilliToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
