package universe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/celestial"
	"starforge/internal/generator"
	"starforge/internal/random"
	"starforge/internal/shared/errors"
)

type memStore struct {
	mu        sync.Mutex
	records   map[uuid.UUID]Record
	snapshots map[uuid.UUID][]byte
	reads     int
	lastList  ListFilter
}

func newMemStore() *memStore {
	return &memStore{
		records:   make(map[uuid.UUID]Record),
		snapshots: make(map[uuid.UUID][]byte),
	}
}

func (m *memStore) Create(_ context.Context, rec *Record, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; ok {
		return errors.Conflictf("universe %s already exists", rec.ID)
	}
	rec.CreatedAt = time.Now()
	m.records[rec.ID] = *rec
	m.snapshots[rec.ID] = snapshot
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errors.NotFoundf("universe %s not found", id)
	}
	return &rec, nil
}

func (m *memStore) Snapshot(_ context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	data, ok := m.snapshots[id]
	if !ok {
		return nil, errors.NotFoundf("universe %s not found", id)
	}
	return data, nil
}

func (m *memStore) List(_ context.Context, filter ListFilter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = filter
	out := []Record{}
	for _, rec := range m.records {
		if len(filter.Presets) == 0 || slices.Contains(filter.Presets, rec.Preset) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b Record) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if filter.Offset >= len(out) {
		return []Record{}, nil
	}
	out = out[filter.Offset:]
	return out[:min(filter.Limit, len(out))], nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return errors.NotFoundf("universe %s not found", id)
	}
	delete(m.records, id)
	delete(m.snapshots, id)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[uuid.UUID][]byte
	failing bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[uuid.UUID][]byte)}
}

var errCacheDown = stderrors.New("cache down")

func (c *memCache) Get(_ context.Context, id uuid.UUID) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return nil, false, errCacheDown
	}
	data, ok := c.data[id]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, id uuid.UUID, snapshot []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errCacheDown
	}
	c.data[id] = snapshot
	return nil
}

func (c *memCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errCacheDown
	}
	delete(c.data, id)
	return nil
}

type lookups struct {
	mu         sync.Mutex
	hit, miss int
}

func (l *lookups) RecordCacheLookup(hit bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hit {
		l.hit++
	} else {
		l.miss++
	}
}

func newTestService(store Store, opts ...Option) *Service {
	logger := slog.New(slog.DiscardHandler)
	gen := generator.New(logger)
	return NewService(gen, generator.DefaultConfig(), Limits{MaxSystems: 8, PreviewSystems: 3}, store, logger, opts...)
}

func TestCreateStoresRecordAndSnapshot(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	svc := newTestService(store, WithCache(cache))

	rec, err := svc.Create(t.Context(), CreateRequest{
		Name:     "Local Group",
		Seed:     random.StringSeed("local"),
		Systems:  3,
		Settings: generator.Settings{Preset: "binary", EnableComets: true},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "local", rec.Seed)
	assert.Equal(t, "binary", rec.Preset)
	assert.Equal(t, generator.Version, rec.GeneratorVersion)
	assert.Equal(t, 3, rec.SystemCount)
	assert.Positive(t, rec.BodyCount)
	assert.JSONEq(t, `"binary"`, string(mustField(t, rec.Settings, "preset")))

	var u celestial.Universe
	require.NoError(t, json.Unmarshal(store.snapshots[rec.ID], &u))
	assert.Len(t, u.RootIDs, 3)
	assert.Equal(t, rec.SeedValue, u.Metadata.SeedValue)
	assert.Equal(t, store.snapshots[rec.ID], cache.data[rec.ID])
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemStore())
	tests := []struct {
		name string
		req  CreateRequest
	}{
		{name: "missing name", req: CreateRequest{}},
		{name: "too many systems", req: CreateRequest{Name: "x", Systems: 9}},
		{name: "negative systems", req: CreateRequest{Name: "x", Systems: -2}},
		{name: "bad settings", req: CreateRequest{Name: "x", Settings: generator.Settings{NebulaPlacement: "inside"}}},
		{name: "unknown preset", req: CreateRequest{Name: "x", Settings: generator.Settings{Preset: "nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(t.Context(), tt.req)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
		})
	}
}

func TestPreviewIsCappedAndDeterministic(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	req := PreviewRequest{Seed: random.NumberSeed(42), Systems: 2}
	a, err := svc.Preview(t.Context(), req)
	require.NoError(t, err)
	b, err := svc.Preview(t.Context(), req)
	require.NoError(t, err)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb))
	assert.Empty(t, store.records)

	_, err = svc.Preview(t.Context(), PreviewRequest{Systems: 4})
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = svc.Preview(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListDefaultsAndCaps(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.List(t.Context(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, store.lastList.Limit)

	_, err = svc.List(t.Context(), ListFilter{Limit: 10_000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, store.lastList.Limit)
	assert.Zero(t, store.lastList.Offset)
}

func TestSnapshotUsesCache(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	seen := &lookups{}
	svc := newTestService(store, WithCache(cache), WithCacheObserver(seen))

	rec, err := svc.Create(t.Context(), CreateRequest{Name: "cached", Seed: random.StringSeed("c")})
	require.NoError(t, err)
	delete(cache.data, rec.ID)

	first, err := svc.Snapshot(t.Context(), rec.ID)
	require.NoError(t, err)
	second, err := svc.Snapshot(t.Context(), rec.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 1, seen.hit)
	assert.Equal(t, 1, seen.miss)
}

// slowStore holds snapshot reads until released and records the context
// state each read finished with.
type slowStore struct {
	*memStore
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	ctxErrs []error
}

func (s *slowStore) Snapshot(ctx context.Context, id uuid.UUID) ([]byte, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-s.release
	s.mu.Lock()
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.mu.Unlock()
	return s.memStore.Snapshot(ctx, id)
}

func TestSnapshotSharedReadOutlivesCanceledCaller(t *testing.T) {
	store := &slowStore{memStore: newMemStore(), started: make(chan struct{}, 2), release: make(chan struct{})}
	svc := newTestService(store)

	rec, err := svc.Create(t.Context(), CreateRequest{Name: "shared", Seed: random.StringSeed("s")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Snapshot(ctx, rec.ID)
		firstErr <- err
	}()
	<-store.started

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	type result struct {
		data []byte
		err  error
	}
	second := make(chan result, 1)
	go func() {
		data, err := svc.Snapshot(t.Context(), rec.ID)
		second <- result{data, err}
	}()
	close(store.release)

	got := <-second
	require.NoError(t, got.err)
	assert.NotEmpty(t, got.data)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotEmpty(t, store.ctxErrs)
	for _, err := range store.ctxErrs {
		assert.NoError(t, err)
	}
}

func TestSnapshotSurvivesCacheFailure(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	svc := newTestService(store, WithCache(cache))

	rec, err := svc.Create(t.Context(), CreateRequest{Name: "flaky", Seed: random.StringSeed("f")})
	require.NoError(t, err)

	cache.failing = true
	data, err := svc.Snapshot(t.Context(), rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	require.NoError(t, svc.Delete(t.Context(), rec.ID))
	_, err = svc.Get(t.Context(), rec.ID)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestDeleteEvictsCache(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	svc := newTestService(store, WithCache(cache))

	rec, err := svc.Create(t.Context(), CreateRequest{Name: "gone", Seed: random.StringSeed("g")})
	require.NoError(t, err)
	require.Contains(t, cache.data, rec.ID)

	require.NoError(t, svc.Delete(t.Context(), rec.ID))
	assert.NotContains(t, cache.data, rec.ID)

	_, err = svc.Snapshot(t.Context(), rec.ID)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(svc.Delete(t.Context(), rec.ID)))
}

func TestSnapshotKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "starforge:universe:6ba7b810-9dad-11d1-80b4-00c04fd430c8:snapshot", snapshotKey(id))
}
