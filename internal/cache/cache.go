// Package cache provides a memcache-backed result cache for retail sources.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/donaldgifford/slash/internal/metrics"
	"github.com/donaldgifford/slash/internal/retail"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the byte-level cache used by Source.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

// MemcacheStore implements Store using memcache.
type MemcacheStore struct {
	client *memcache.Client
}

// NewMemcacheStore creates a store spread across the given memcache servers.
func NewMemcacheStore(servers ...string) *MemcacheStore {
	return &MemcacheStore{client: memcache.New(servers...)}
}

// Get retrieves a value from memcache.
func (m *MemcacheStore) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// MaxTTL is the longest relative expiration memcache accepts. Larger values
// are read as absolute Unix times.
const MaxTTL = 30 * 24 * time.Hour

// Set stores a value in memcache with an expiration time.
func (m *MemcacheStore) Set(key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expiration(ttl),
	})
}

// expiration converts ttl to whole seconds, rounding up so a sub-second ttl
// does not become 0 (never expire).
func expiration(ttl time.Duration) int32 {
	switch {
	case ttl <= 0:
		return 0
	case ttl > MaxTTL:
		ttl = MaxTTL
	}
	return int32((ttl + time.Second - 1) / time.Second)
}

// Ping checks that every memcache server is reachable.
func (m *MemcacheStore) Ping() error {
	return m.client.Ping()
}

// Source decorates a retail.Source, caching successful results per site and
// normalized query. Cache failures behave like misses.
type Source struct {
	next   retail.Source
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// Wrap returns next decorated with the cache. A non-positive ttl disables
// caching and returns next unchanged.
func Wrap(next retail.Source, store Store, ttl time.Duration, logger *slog.Logger) retail.Source {
	if ttl <= 0 || store == nil {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{next: next, store: store, ttl: ttl, logger: logger}
}

// Name implements retail.Source.
func (s *Source) Name() domain.Site { return s.next.Name() }

// Fetch implements retail.Source.
func (s *Source) Fetch(ctx context.Context, query string) ([]domain.RawItem, error) {
	site := string(s.next.Name())
	key := Key(s.next.Name(), query)

	if data, err := s.store.Get(key); err == nil {
		var items []domain.RawItem
		if err := json.Unmarshal(data, &items); err == nil {
			metrics.CacheHitsTotal.WithLabelValues(site).Inc()
			return items, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "site", site, "key", key)
	} else if !errors.Is(err, ErrMiss) {
		s.logger.Warn("cache get failed", "site", site, "error", err)
	}
	metrics.CacheMissesTotal.WithLabelValues(site).Inc()

	items, err := s.next.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("encoding cache entry failed", "site", site, "error", err)
		return items, nil
	}
	if err := s.store.Set(key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "site", site, "error", err)
	}
	return items, nil
}

// Key returns the cache key for a site and query. Queries differing only in
// case or surrounding whitespace share a key. Memcache keys are limited to 250
// bytes without spaces, so the query is hashed.
func Key(site domain.Site, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "slash:search:" + string(site) + ":" + hex.EncodeToString(sum[:])
}
