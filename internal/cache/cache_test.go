package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/cache"
	"github.com/donaldgifford/slash/internal/metrics"
	retailMocks "github.com/donaldgifford/slash/internal/retail/mocks"
	"github.com/donaldgifford/slash/pkg/logger"
	domain "github.com/donaldgifford/slash/pkg/types"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

var keyboards = []domain.RawItem{
	{Title: "Keyboard", Price: "$49.99", Link: "https://walmart.com/1", ImageLink: "N/A", SiteName: "walmart"},
}

func TestSource_CachesSuccessfulFetch(t *testing.T) {
	t.Parallel()

	next := retailMocks.NewMockSource(t)
	next.EXPECT().Name().Return(domain.SiteWalmart)
	next.EXPECT().Fetch(mock.Anything, "Keyboard").Return(keyboards, nil).Once()

	src := cache.Wrap(next, newMemStore(), time.Minute, logger.Discard())

	hitsBefore := testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues("walmart"))

	first, err := src.Fetch(context.Background(), "Keyboard")
	require.NoError(t, err)
	assert.Equal(t, keyboards, first)

	// Normalized query hits the cached entry; next is not called again.
	second, err := src.Fetch(context.Background(), "  keyboard ")
	require.NoError(t, err)
	assert.Equal(t, keyboards, second)

	assert.InDelta(t, hitsBefore+1, testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues("walmart")), 0)
}

func TestSource_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("boom")
	next := retailMocks.NewMockSource(t)
	next.EXPECT().Name().Return(domain.SiteTarget)
	next.EXPECT().Fetch(mock.Anything, "lamp").Return(nil, fetchErr).Twice()

	src := cache.Wrap(next, newMemStore(), time.Minute, logger.Discard())

	_, err := src.Fetch(context.Background(), "lamp")
	require.ErrorIs(t, err, fetchErr)
	_, err = src.Fetch(context.Background(), "lamp")
	require.ErrorIs(t, err, fetchErr)
}

func TestSource_StoreFailuresActAsMiss(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.getErr = errors.New("memcache down")
	store.setErr = errors.New("memcache down")

	next := retailMocks.NewMockSource(t)
	next.EXPECT().Name().Return(domain.SiteWalmart)
	next.EXPECT().Fetch(mock.Anything, "keyboard").Return(keyboards, nil).Twice()

	src := cache.Wrap(next, store, time.Minute, logger.Discard())

	for range 2 {
		items, err := src.Fetch(context.Background(), "keyboard")
		require.NoError(t, err)
		assert.Equal(t, keyboards, items)
	}
}

func TestSource_UndecodableEntryRefetches(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.data[cache.Key(domain.SiteWalmart, "keyboard")] = []byte("not json")

	next := retailMocks.NewMockSource(t)
	next.EXPECT().Name().Return(domain.SiteWalmart)
	next.EXPECT().Fetch(mock.Anything, "keyboard").Return(keyboards, nil).Once()

	src := cache.Wrap(next, store, time.Minute, logger.Discard())

	items, err := src.Fetch(context.Background(), "keyboard")
	require.NoError(t, err)
	assert.Equal(t, keyboards, items)
}

func TestWrap_DisabledReturnsNext(t *testing.T) {
	t.Parallel()

	next := retailMocks.NewMockSource(t)

	assert.Same(t, next, cache.Wrap(next, newMemStore(), 0, nil))
	assert.Same(t, next, cache.Wrap(next, nil, time.Minute, nil))
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cache.Key(domain.SiteWalmart, "Desk Lamp"), cache.Key(domain.SiteWalmart, " desk   lamp "))
	assert.NotEqual(t, cache.Key(domain.SiteWalmart, "lamp"), cache.Key(domain.SiteTarget, "lamp"))
	assert.NotContains(t, cache.Key(domain.SiteWalmart, "a b c"), " ")
	assert.LessOrEqual(t, len(cache.Key(domain.SiteBestBuy, string(make([]byte, 1000)))), 250)
}

// This test requires a running memcached instance.
// If memcached is not available, the test will be skipped.
func TestMemcacheStore(t *testing.T) {
	mc := cache.NewMemcacheStore("localhost:11211")
	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	require.NoError(t, mc.Set("slash_test_key", []byte("test_value"), time.Second))

	value, err := mc.Get("slash_test_key")
	require.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	_, err = mc.Get("slash_missing_key")
	require.ErrorIs(t, err, cache.ErrMiss)
	assert.NotErrorIs(t, err, memcache.ErrCacheMiss)
}
