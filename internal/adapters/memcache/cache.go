// Package memcache is the in-process result cache: a fixed number of
// location -> records entries, each valid for a fixed TTL from when it was stored.
package memcache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/domain"
)

const (
	DefaultCapacity = 200
	DefaultTTL      = 5 * time.Minute
)

type entry struct {
	records  []domain.HotelRecord
	storedAt time.Time
}

// Cache evicts the least recently touched entry when full. Reads count as a
// touch but do not extend an entry's lifetime.
type Cache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, entry]
	ttl time.Duration
	now func() time.Time
}

type Option func(*cacheConfig)

type cacheConfig struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

func WithCapacity(n int) Option { return func(c *cacheConfig) { c.capacity = n } }

func WithTTL(d time.Duration) Option { return func(c *cacheConfig) { c.ttl = d } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(c *cacheConfig) { c.now = now } }

func New(opts ...Option) *Cache {
	cfg := cacheConfig{capacity: DefaultCapacity, ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.capacity <= 0 {
		cfg.capacity = DefaultCapacity
	}
	if cfg.ttl <= 0 {
		cfg.ttl = DefaultTTL
	}
	// only fails for a non-positive size, ruled out above
	lru, _ := simplelru.NewLRU[string, entry](cfg.capacity, nil)
	return &Cache{lru: lru, ttl: cfg.ttl, now: cfg.now}
}

// Get returns the records stored under key. Expired entries are dropped and
// reported as absent; a hit moves the entry to the most recent position.
func (c *Cache) Get(key string) ([]domain.HotelRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok {
		observability.ObserveCache("memory", "miss")
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.lru.Remove(key)
		observability.ObserveCache("memory", "expired")
		return nil, false
	}
	c.lru.Get(key)
	observability.ObserveCache("memory", "hit")
	return e.records, true
}

// Set stores records with a fresh timestamp. A new key on a full cache evicts
// exactly one entry, the least recently touched.
func (c *Cache) Set(key string, records []domain.HotelRecord) {
	c.SetAt(key, records, c.now())
}

// SetAt is Set with the entry's age taken from storedAt, for records that
// were fetched earlier by someone else.
func (c *Cache) SetAt(key string, records []domain.HotelRecord, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if evicted := c.lru.Add(key, entry{records: records, storedAt: storedAt}); evicted {
		observability.ObserveCache("memory", "evict")
	}
	observability.ObserveCache("memory", "set")
}

// Len is the number of resident entries, expired ones included until touched.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys lists resident keys from least to most recently touched.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}
