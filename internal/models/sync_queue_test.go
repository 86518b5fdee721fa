package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncQueueItem_Before(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		self     *SyncQueueItem
		other    *SyncQueueItem
		name     string
		expected bool
	}{
		{
			name:     "higher priority first",
			self:     &SyncQueueItem{Priority: 5, Timestamp: base.Add(time.Hour)},
			other:    &SyncQueueItem{Priority: 1, Timestamp: base},
			expected: true,
		},
		{
			name:     "lower priority later",
			self:     &SyncQueueItem{Priority: 0, Timestamp: base},
			other:    &SyncQueueItem{Priority: 1, Timestamp: base.Add(time.Hour)},
			expected: false,
		},
		{
			name:     "same priority older first",
			self:     &SyncQueueItem{Priority: 1, Timestamp: base},
			other:    &SyncQueueItem{Priority: 1, Timestamp: base.Add(time.Second)},
			expected: true,
		},
		{
			name:     "equal keys are not before",
			self:     &SyncQueueItem{Priority: 1, Timestamp: base},
			other:    &SyncQueueItem{Priority: 1, Timestamp: base},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.self.Before(tt.other))
		})
	}
}

func TestSyncQueueItem_Retriable(t *testing.T) {
	tests := []struct {
		name     string
		status   ItemStatus
		retry    int
		max      int
		expected bool
	}{
		{name: "pending", status: StatusPending, expected: true, max: 3},
		{name: "failed with budget", status: StatusFailed, retry: 1, max: 3, expected: true},
		{name: "failed exhausted", status: StatusFailed, retry: 3, max: 3, expected: false},
		{name: "completed", status: StatusCompleted, max: 3, expected: false},
		{name: "conflict", status: StatusConflict, max: 3, expected: false},
		{name: "in progress", status: StatusInProgress, max: 3, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &SyncQueueItem{Status: tt.status, RetryCount: tt.retry, MaxRetries: tt.max}
			assert.Equal(t, tt.expected, item.Retriable())
		})
	}
}

func TestSyncQueueItem_ReadyAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	item := &SyncQueueItem{}
	assert.True(t, item.ReadyAt(now))

	later := now.Add(time.Minute)
	item.NextAttemptAt = &later
	assert.False(t, item.ReadyAt(now))
	assert.True(t, item.ReadyAt(later))
}

func TestSyncQueueItem_Clone(t *testing.T) {
	next := time.Now()
	original := &SyncQueueItem{
		ID:            "task_1_1",
		Dependencies:  []string{"a", "b"},
		ConflictData:  map[string]any{"nested": map[string]any{"k": "v"}, "list": []any{1.0}},
		NextAttemptAt: &next,
	}
	original.SetServerVersion(4)

	clone := original.Clone()
	require.NotNil(t, clone)

	clone.Dependencies[0] = "changed"
	*clone.ServerVersion = 9
	clone.ConflictData["nested"].(map[string]any)["k"] = "changed"
	*clone.NextAttemptAt = next.Add(time.Hour)

	assert.Equal(t, "a", original.Dependencies[0])
	assert.Equal(t, int64(4), *original.ServerVersion)
	assert.Equal(t, "v", original.ConflictData["nested"].(map[string]any)["k"])
	assert.Equal(t, next, *original.NextAttemptAt)
}

func TestSyncQueueItem_JSONShape(t *testing.T) {
	item := &SyncQueueItem{
		ID:           "task_42_1767261600000",
		Operation:    OperationUpdate,
		EntityType:   "task",
		EntityID:     "42",
		Data:         "eyJ0aXRsZSI6IngifQ==",
		Timestamp:    time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Status:       StatusPending,
		MaxRetries:   3,
		Priority:     2,
		Dependencies: []string{},
		LocalVersion: 1,
	}

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"id", "operation", "entityType", "entityId", "data", "timestamp",
		"status", "retryCount", "maxRetries", "priority", "dependencies", "localVersion"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "serverVersion")
	assert.NotContains(t, fields, "conflictData")
	assert.Equal(t, "2026-01-01T10:00:00Z", fields["timestamp"])
}

func TestNewItemID(t *testing.T) {
	ts := time.UnixMilli(1767261600000)
	assert.Equal(t, "task_42_1767261600000", NewItemID("task", "42", ts))
}

func TestVersionOf(t *testing.T) {
	tests := []struct {
		data     map[string]any
		name     string
		expected int64
		ok       bool
	}{
		{name: "float64", data: map[string]any{"version": 2.0}, expected: 2, ok: true},
		{name: "int64", data: map[string]any{"version": int64(3)}, expected: 3, ok: true},
		{name: "int", data: map[string]any{"version": 4}, expected: 4, ok: true},
		{name: "json number", data: map[string]any{"version": json.Number("5")}, expected: 5, ok: true},
		{name: "missing", data: map[string]any{}, ok: false},
		{name: "wrong type", data: map[string]any{"version": "x"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := VersionOf(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestEntity_Representation(t *testing.T) {
	e := &Entity{ID: "42", Type: "task", Version: 3, Data: map[string]any{"title": "fix pump"}}

	rep := e.Representation()
	assert.Equal(t, "42", rep["id"])
	assert.Equal(t, int64(3), rep["version"])
	assert.Equal(t, "fix pump", rep["title"])

	rep["title"] = "changed"
	assert.Equal(t, "fix pump", e.Data["title"])
}
