package models

import (
	"encoding/json"
	"time"
)

// VersionField имя поля версии в представлении сущности
const VersionField = "version"

// Entity представляет запись удаленного хранилища (и ее локальную копию в кэше клиента).
// Data хранит произвольные поля сущности, Version - оптимистичная версия.
type Entity struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Data      map[string]any `json:"data"`
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	Version   int64          `json:"version"`
	Deleted   bool           `json:"deleted"`
}

// Representation returns the entity fields with id and version set,
// the shape the remote contract returns as `data`.
func (e *Entity) Representation() map[string]any {
	out := CloneData(e.Data)
	if out == nil {
		out = make(map[string]any)
	}
	out["id"] = e.ID
	out[VersionField] = e.Version
	return out
}

// VersionOf extracts the optimistic version from a representation.
// JSON decoding yields float64 or json.Number, both are accepted.
func VersionOf(data map[string]any) (int64, bool) {
	raw, ok := data[VersionField]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
