package store

import (
	"context"
	"sync"
	"time"

	"github.com/okian/clientscore/pkg/metrics"
)

// memoryEntry is one cached value with its expiry deadline. A zero
// deadline never expires.
type memoryEntry struct {
	value    float64
	deadline time.Time
}

// Memory implements Store in process, for development setups and tests
// that run without a redis backend. Expired entries are dropped lazily
// on read.
type Memory struct {
	mu    sync.RWMutex
	cache map[string]memoryEntry
	lists map[string][]string
	now   func() time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		cache: make(map[string]memoryEntry),
		lists: make(map[string][]string),
		now:   time.Now,
	}
}

// CacheSet writes value under key with the given TTL. It cannot fail.
func (m *Memory) CacheSet(_ context.Context, key string, value float64, ttl time.Duration) bool {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.deadline = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.cache[key] = entry
	m.mu.Unlock()
	return true
}

// CacheGet reads the value under key, dropping it when expired.
func (m *Memory) CacheGet(_ context.Context, key string) (float64, bool) {
	m.mu.RLock()
	entry, ok := m.cache[key]
	m.mu.RUnlock()

	if ok && !entry.deadline.IsZero() && m.now().After(entry.deadline) {
		m.mu.Lock()
		delete(m.cache, key)
		m.mu.Unlock()
		ok = false
	}
	if !ok {
		metrics.RecordCacheMiss()
		return 0, false
	}
	metrics.RecordCacheHit()
	return entry.value, true
}

// GetList reads the list stored under key. A missing key is an empty
// list; the in-process store is never unavailable.
func (m *Memory) GetList(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]string, len(m.lists[key]))
	copy(items, m.lists[key])
	return items, nil
}

// SeedList replaces the list under key, for development fixtures.
func (m *Memory) SeedList(key string, items []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append([]string(nil), items...)
}
