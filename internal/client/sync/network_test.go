package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/internal/client/api"
	"github.com/iudanet/fieldsync/internal/models"
	pkgapi "github.com/iudanet/fieldsync/pkg/api"
)

type healthFunc func(ctx context.Context) (*pkgapi.HealthResponse, error)

func (f healthFunc) Health(ctx context.Context) (*pkgapi.HealthResponse, error) { return f(ctx) }

func TestHealthProbe_Transitions(t *testing.T) {
	var up atomic.Bool
	probe := NewHealthProbe(healthFunc(func(ctx context.Context) (*pkgapi.HealthResponse, error) {
		if up.Load() {
			return &pkgapi.HealthResponse{Status: "ok"}, nil
		}
		return nil, errNetworkDown
	}), time.Minute, setupTestLogger())

	var changes []bool
	unsubscribe := probe.Subscribe(func(online bool) { changes = append(changes, online) })

	assert.False(t, probe.Online())
	assert.False(t, probe.Probe(context.Background()))
	assert.Empty(t, changes, "состояние не изменилось")

	up.Store(true)
	assert.True(t, probe.Probe(context.Background()))
	assert.True(t, probe.Probe(context.Background()))
	assert.Equal(t, []bool{true}, changes)

	up.Store(false)
	probe.Probe(context.Background())
	assert.Equal(t, []bool{true, false}, changes)

	unsubscribe()
	up.Store(true)
	probe.Probe(context.Background())
	assert.Len(t, changes, 2)
}

func TestHealthProbe_WithAPIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	probe := NewHealthProbe(api.NewClient(server.URL, "", time.Second), time.Minute, setupTestLogger())
	require.NoError(t, probe.Start(context.Background()))
	defer probe.Stop()

	assert.True(t, probe.Online(), "первая проверка выполняется в Start")
	assert.Error(t, probe.Start(context.Background()))
}

func TestHealthProbe_ReconnectDrivesEngine(t *testing.T) {
	var up atomic.Bool
	probe := NewHealthProbe(healthFunc(func(ctx context.Context) (*pkgapi.HealthResponse, error) {
		if up.Load() {
			return &pkgapi.HealthResponse{Status: "ok"}, nil
		}
		return nil, errNetworkDown
	}), time.Minute, setupTestLogger())

	env := newTestEnv(t, withNetwork(probe))
	require.NoError(t, env.engine.Start(context.Background()))

	id := env.enqueue(t, queueCreate("X"))

	up.Store(true)
	probe.Probe(context.Background())

	require.Eventually(t, func() bool {
		item, err := env.queue.Get(id)
		return err == nil && item.Status == models.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHealthProbe_InvalidInterval(t *testing.T) {
	probe := NewHealthProbe(healthFunc(func(ctx context.Context) (*pkgapi.HealthResponse, error) {
		return nil, nil
	}), 0, setupTestLogger())
	assert.Error(t, probe.Start(context.Background()))
}
