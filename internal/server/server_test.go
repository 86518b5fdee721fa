package server

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/internal/client/app"
	"github.com/iudanet/fieldsync/internal/client/queue"
	clientsync "github.com/iudanet/fieldsync/internal/client/sync"
	"github.com/iudanet/fieldsync/internal/config"
	"github.com/iudanet/fieldsync/internal/models"
	"github.com/iudanet/fieldsync/internal/server/handlers"
	"github.com/iudanet/fieldsync/internal/server/storage"
	"github.com/iudanet/fieldsync/internal/server/storage/sqlite"
	"github.com/iudanet/fieldsync/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testServerConfig() *config.Server {
	cfg := config.DefaultServer()
	cfg.JWTSecret = strings.Repeat("k", 32)
	return cfg
}

type testEnv struct {
	store  *sqlite.Storage
	server *httptest.Server
	cfg    *config.Server
}

func setupServer(t *testing.T, cfg *config.Server) *testEnv {
	t.Helper()
	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := New(cfg, store, setupTestLogger(), "test")
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{store: store, server: ts, cfg: cfg}
}

func (e *testEnv) token(t *testing.T, deviceID string) string {
	t.Helper()
	token, _, err := handlers.GenerateDeviceToken(handlers.JWTConfig{
		Secret:   []byte(e.cfg.JWTSecret),
		TokenTTL: time.Hour,
	}, deviceID)
	require.NoError(t, err)
	return token
}

func (e *testEnv) client(t *testing.T, token string) *app.App {
	t.Helper()
	cfg := config.DefaultClient()
	cfg.DBPath = filepath.Join(t.TempDir(), "client.db")
	cfg.ServerURL = e.server.URL
	cfg.AccessToken = token
	cfg.DeviceID = "tablet-7"
	cfg.MaxRetries = 1

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{Getenv: func(string) string { return "" }}, setupTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })
	return a
}

func TestServer_Health(t *testing.T) {
	env := setupServer(t, testServerConfig())

	resp, err := http.Get(env.server.URL + api.BasePath + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "health не требует токена")
}

func TestServer_RequiresToken(t *testing.T) {
	env := setupServer(t, testServerConfig())

	resp, err := http.Get(env.server.URL + api.EntitiesPath + "/task/42")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = 2
	env := setupServer(t, cfg)
	token := env.token(t, "tablet-7")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, env.server.URL+api.EntitiesPath+"/task/42", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)
}

// TestEngineAgainstServer прогоняет клиентский движок против эталонного сервера
func TestEngineAgainstServer(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t, testServerConfig())
	client := env.client(t, env.token(t, "tablet-7"))

	t.Run("create", func(t *testing.T) {
		_, err := client.Engine.Enqueue(ctx, queue.EnqueueRequest{
			Operation: models.OperationCreate, EntityType: "task", EntityID: "42",
			Payload: map[string]any{"title": "Inspect pump", "priority": 2},
		})
		require.NoError(t, err)

		result, err := client.Engine.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Completed)

		stored, err := env.store.GetEntity(ctx, "task", "42")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version)
		assert.Equal(t, "Inspect pump", stored.Data["title"])

		cached, err := client.Storage.GetEntity(ctx, "task", "42")
		require.NoError(t, err)
		assert.Equal(t, int64(1), cached.Version)
	})

	t.Run("conflict resolved by client", func(t *testing.T) {
		// другое устройство успело изменить запись
		_, err := env.store.UpdateEntity(ctx, "task", "42", map[string]any{"title": "Replace seal"}, nil)
		require.NoError(t, err)

		id, err := client.Engine.Enqueue(ctx, queue.EnqueueRequest{
			Operation: models.OperationUpdate, EntityType: "task", EntityID: "42",
			Payload:      map[string]any{"title": "Inspect pump twice"},
			LocalVersion: 1,
		})
		require.NoError(t, err)

		result, err := client.Engine.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Conflicts)

		item, err := client.Queue.Get(id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConflict, item.Status)
		assert.Equal(t, "Replace seal", item.ConflictData["title"])

		_, err = client.Engine.Resolve(ctx, id, clientsync.ResolutionClient)
		require.NoError(t, err)

		stored, err := env.store.GetEntity(ctx, "task", "42")
		require.NoError(t, err)
		assert.Equal(t, int64(3), stored.Version)
		assert.Equal(t, "Inspect pump twice", stored.Data["title"])
	})

	t.Run("upload", func(t *testing.T) {
		_, err := client.Engine.Enqueue(ctx, queue.EnqueueRequest{
			Operation: models.OperationUpload, EntityType: "photo", EntityID: "p1",
			Payload: map[string]any{
				clientsync.UploadContentField:     base64.StdEncoding.EncodeToString([]byte("jpeg bytes")),
				clientsync.UploadContentTypeField: "image/jpeg",
			},
		})
		require.NoError(t, err)

		result, err := client.Engine.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Completed)

		upload, err := env.store.GetUpload(ctx, "photo", "p1")
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg bytes"), upload.Content)
		assert.Equal(t, "image/jpeg", upload.ContentType)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := client.Engine.Enqueue(ctx, queue.EnqueueRequest{
			Operation: models.OperationDelete, EntityType: "task", EntityID: "42",
		})
		require.NoError(t, err)

		result, err := client.Engine.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Completed)

		_, err = env.store.GetEntity(ctx, "task", "42")
		assert.ErrorIs(t, err, storage.ErrEntityNotFound)
	})
}

func TestEngineAgainstServer_Unauthorized(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t, testServerConfig())
	client := env.client(t, "")

	_, err := client.Engine.Enqueue(ctx, queue.EnqueueRequest{
		Operation: models.OperationCreate, EntityType: "task", EntityID: "42",
		Payload: map[string]any{"title": "Inspect pump"},
	})
	require.NoError(t, err)

	result, err := client.Engine.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Completed)

	_, err = env.store.GetEntity(ctx, "task", "42")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestServer_Run(t *testing.T) {
	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	cfg := testServerConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := New(cfg, store, setupTestLogger(), "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
