package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	data      json.RawMessage
	expiresAt time.Time
}

// Memory is an in-process Cache with a fixed TTL. Expired entries are
// evicted lazily on read. Safe for concurrent use.
type Memory struct {
	ttl     time.Duration
	nowFunc func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// MemoryOption configures the Memory cache.
type MemoryOption func(*Memory)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.nowFunc = f
	}
}

// NewMemory creates a Memory cache whose entries live for ttl.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		ttl:     ttl,
		nowFunc: time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string, target any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if !m.nowFunc().Before(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: the entry may have been replaced.
		if cur, exists := m.entries[key]; exists && !m.nowFunc().Before(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.data, target); err != nil {
		return false, fmt.Errorf("unmarshaling cache entry %q: %w", key, err)
	}
	return true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling cache entry %q: %w", key, err)
	}

	m.mu.Lock()
	m.entries[key] = entry{
		data:      data,
		expiresAt: m.nowFunc().Add(m.ttl),
	}
	m.mu.Unlock()

	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
