package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryOption configures the in-process backend.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds in-process cache settings.
type MemoryConfig struct {
	MaxSize         int
	CleanupInterval time.Duration
}

// WithMemoryMaxSize caps the number of entries before eviction kicks in.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *MemoryConfig) { c.MaxSize = size }
}

// WithMemoryCleanup sets how often expired entries are swept.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(c *MemoryConfig) { c.CleanupInterval = interval }
}

type entry struct {
	value      interface{}
	expireAt   time.Time
	lastAccess time.Time
}

// MemoryCache is the in-process Service used when Redis is not deployed.
// When full it evicts the least recently read entry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	maxSize int
	sweeper *time.Ticker
}

// NewMemoryCache creates an in-process cache and starts its sweep loop.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{MaxSize: 1000, CleanupInterval: 5 * time.Minute}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		entries: make(map[string]*entry),
		maxSize: cfg.MaxSize,
		sweeper: time.NewTicker(cfg.CleanupInterval),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}
	now := time.Now()

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if len(mc.entries) >= mc.maxSize {
		mc.evict()
	}
	mc.entries[key] = &entry{value: value, expireAt: now.Add(expiration), lastAccess: now}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e, ok := mc.entries[key]
	if !ok {
		return ErrCacheMiss
	}
	if time.Now().After(e.expireAt) {
		delete(mc.entries, key)
		return ErrCacheMiss
	}
	e.lastAccess = time.Now()
	return assign(e.value, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.entries, key)
	}
	return nil
}

// Close stops the sweep loop.
func (mc *MemoryCache) Close() error {
	mc.sweeper.Stop()
	return nil
}

// assign copies a stored value into dest. Strings and interface pointers are
// copied directly; anything typed goes through a JSON roundtrip so the memory
// backend behaves like the Redis one.
func assign(value, dest interface{}) error {
	switch d := dest.(type) {
	case *string:
		if s, ok := value.(string); ok {
			*d = s
			return nil
		}
	case *interface{}:
		*d = value
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// evict removes the least recently read entry. Called with mu held.
func (mc *MemoryCache) evict() {
	var coldest string
	var coldestAt time.Time
	for key, e := range mc.entries {
		if coldest == "" || e.lastAccess.Before(coldestAt) {
			coldest, coldestAt = key, e.lastAccess
		}
	}
	if coldest != "" {
		delete(mc.entries, coldest)
	}
}

func (mc *MemoryCache) sweep() {
	for range mc.sweeper.C {
		now := time.Now()
		mc.mu.Lock()
		for key, e := range mc.entries {
			if now.After(e.expireAt) {
				delete(mc.entries, key)
			}
		}
		mc.mu.Unlock()
	}
}
