package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/internal/client/api"
	"github.com/iudanet/fieldsync/internal/client/queue"
	"github.com/iudanet/fieldsync/internal/client/storage/boltdb"
	"github.com/iudanet/fieldsync/internal/codec"
	"github.com/iudanet/fieldsync/internal/models"
)

var errNetworkDown = errors.New("dial tcp: connection refused")

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeNetwork управляемый NetworkSource
type fakeNetwork struct {
	subscribers map[int]func(bool)
	nextID      int
	online      bool
	mu          sync.Mutex
}

func newFakeNetwork(online bool) *fakeNetwork {
	return &fakeNetwork{online: online, subscribers: make(map[int]func(bool))}
}

func (n *fakeNetwork) Online() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.online
}

func (n *fakeNetwork) Subscribe(fn func(bool)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subscribers, id)
	}
}

func (n *fakeNetwork) Set(online bool) {
	n.mu.Lock()
	n.online = online
	fns := make([]func(bool), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
}

func (n *fakeNetwork) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subscribers)
}

// manualTrigger срабатывает по вызову Fire
type manualTrigger struct {
	fire    func(Reason)
	stopped bool
	mu      sync.Mutex
}

func (t *manualTrigger) Start(fire func(Reason)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fire = fire
	t.stopped = false
	return nil
}

func (t *manualTrigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fire = nil
	t.stopped = true
}

func (t *manualTrigger) Fire(reason Reason) {
	t.mu.Lock()
	fire := t.fire
	t.mu.Unlock()
	if fire != nil {
		fire(reason)
	}
}

// fakeRemote хранит сущности в памяти и ведет себя как эталонный сервер
type fakeRemote struct {
	entities    map[string]map[string]any
	failErr     error
	block       chan struct{}
	onCall      func(method, entityType, entityID string)
	forced      []string
	calls       int
	inFlight    int
	maxInFlight int
	mu          sync.Mutex
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{entities: make(map[string]map[string]any)}
}

func entityKey(entityType, entityID string) string {
	return entityType + "/" + entityID
}

func notFound() error {
	return &api.StatusError{StatusCode: http.StatusNotFound, Message: "entity not found"}
}

// Seed кладет запись на "сервер"
func (r *fakeRemote) Seed(entityType, entityID string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := models.CloneData(fields)
	rec["id"] = entityID
	r.entities[entityKey(entityType, entityID)] = rec
}

func (r *fakeRemote) Record(entityType, entityID string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.CloneData(r.entities[entityKey(entityType, entityID)])
}

func (r *fakeRemote) SetFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

func (r *fakeRemote) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeRemote) MaxInFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxInFlight
}

func (r *fakeRemote) enter(ctx context.Context, method, entityType, entityID string) (func(), error) {
	r.mu.Lock()
	r.calls++
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	failErr := r.failErr
	block := r.block
	onCall := r.onCall
	r.mu.Unlock()

	leave := func() {
		r.mu.Lock()
		r.inFlight--
		r.mu.Unlock()
	}

	if onCall != nil {
		onCall(method, entityType, entityID)
	}
	if block != nil {
		<-block
	}
	// как http.Client: отмененный контекст обрывает вызов
	if err := ctx.Err(); err != nil {
		leave()
		return nil, err
	}
	if failErr != nil {
		leave()
		return nil, failErr
	}
	return leave, nil
}

func versionOf(rec map[string]any) int64 {
	v, _ := models.VersionOf(rec)
	return v
}

func (r *fakeRemote) Create(ctx context.Context, entityType string, payload map[string]any) (map[string]any, error) {
	id, _ := payload["id"].(string)
	leave, err := r.enter(ctx, "create", entityType, id)
	if err != nil {
		return nil, err
	}
	defer leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	rec := models.CloneData(payload)
	rec[models.VersionField] = int64(1)
	r.entities[entityKey(entityType, id)] = rec
	return models.CloneData(rec), nil
}

func (r *fakeRemote) Update(ctx context.Context, entityType, entityID string, payload map[string]any, force bool) (map[string]any, error) {
	leave, err := r.enter(ctx, "update", entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	key := entityKey(entityType, entityID)
	current, ok := r.entities[key]
	if !ok {
		return nil, notFound()
	}
	if force {
		r.forced = append(r.forced, key)
	} else if base, ok := models.VersionOf(payload); ok && base < versionOf(current) {
		return nil, &api.StatusError{
			StatusCode: http.StatusConflict,
			Message:    "version conflict",
			Data:       models.CloneData(current),
		}
	}

	rec := models.CloneData(payload)
	rec["id"] = entityID
	rec[models.VersionField] = versionOf(current) + 1
	r.entities[key] = rec
	return models.CloneData(rec), nil
}

func (r *fakeRemote) Delete(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	leave, err := r.enter(ctx, "delete", entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	key := entityKey(entityType, entityID)
	if _, ok := r.entities[key]; !ok {
		return nil, notFound()
	}
	delete(r.entities, key)
	return nil, nil
}

func (r *fakeRemote) Get(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	leave, err := r.enter(ctx, "get", entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.entities[entityKey(entityType, entityID)]
	if !ok {
		return nil, notFound()
	}
	return models.CloneData(rec), nil
}

func (r *fakeRemote) GetVersion(ctx context.Context, entityType, entityID string) (int64, error) {
	leave, err := r.enter(ctx, "version", entityType, entityID)
	if err != nil {
		return 0, err
	}
	defer leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.entities[entityKey(entityType, entityID)]
	if !ok {
		return 0, notFound()
	}
	return versionOf(rec), nil
}

func (r *fakeRemote) Upload(ctx context.Context, entityType, entityID string, content []byte, contentType string) (map[string]any, error) {
	leave, err := r.enter(ctx, "upload", entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer leave()

	r.mu.Lock()
	defer r.mu.Unlock()
	key := entityKey(entityType, entityID)
	version := versionOf(r.entities[key]) + 1
	rec := map[string]any{
		"id":                entityID,
		"size":              len(content),
		"contentType":       contentType,
		models.VersionField: version,
	}
	r.entities[key] = rec
	return models.CloneData(rec), nil
}

// testEnv собирает Engine поверх BoltDB и fakeRemote
type testEnv struct {
	engine  *Engine
	queue   *queue.Manager
	store   *boltdb.Storage
	remote  *fakeRemote
	clock   *fakeClock
	network *fakeNetwork
}

type envOption func(*Deps, *Options)

func withNetwork(n NetworkSource) envOption {
	return func(d *Deps, _ *Options) { d.Network = n }
}

func withTriggers(triggers ...TriggerSource) envOption {
	return func(d *Deps, _ *Options) { d.Triggers = triggers }
}

func withOptions(fn func(*Options)) envOption {
	return func(_ *Deps, o *Options) { fn(o) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := newFakeClock()
	logger := setupTestLogger()
	q := queue.NewManager(store, codec.JSON{}, queue.Options{Clock: clock}, logger)
	remote := newFakeRemote()

	deps := Deps{
		Queue:    q,
		Remote:   remote,
		Cache:    store,
		Metadata: store,
		Clock:    clock,
	}
	options := Options{
		BatchSize:      DefaultBatchSize,
		RetryDelay:     time.Second,
		ConflictPolicy: PolicyManual,
	}
	for _, opt := range opts {
		opt(&deps, &options)
	}

	var network *fakeNetwork
	if n, ok := deps.Network.(*fakeNetwork); ok {
		network = n
	}

	engine := NewEngine(deps, options, logger)
	t.Cleanup(engine.Stop)

	return &testEnv{
		engine:  engine,
		queue:   q,
		store:   store,
		remote:  remote,
		clock:   clock,
		network: network,
	}
}

func (env *testEnv) enqueue(t *testing.T, req queue.EnqueueRequest) string {
	t.Helper()
	id, err := env.engine.Enqueue(context.Background(), req)
	require.NoError(t, err)
	env.clock.Advance(time.Millisecond)
	return id
}

func (env *testEnv) item(t *testing.T, id string) *models.SyncQueueItem {
	t.Helper()
	item, err := env.queue.Get(id)
	require.NoError(t, err)
	return item
}

func (env *testEnv) sync(t *testing.T) *PassResult {
	t.Helper()
	res, err := env.engine.Sync(context.Background())
	require.NoError(t, err)
	return res
}

func queueCreate(entityID string) queue.EnqueueRequest {
	return queue.EnqueueRequest{Operation: models.OperationCreate, EntityType: "task", EntityID: entityID}
}
