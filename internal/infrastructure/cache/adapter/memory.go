package adapter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/port"
)

type memoryItem struct {
	value     string
	expiresAt time.Time // zero means no expiration
}

// MemoryCache is an in-process port.Cache used when no REDIS_URL is configured.
// Expired entries are dropped lazily on read.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryAdapter() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

// Ensure interface compliance at compile time
var _ port.Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", port.ErrMiss
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return "", port.ErrMiss
	}
	return item.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Del(_ context.Context, keys ...string) (int64, error) {
	var removed int64
	m.mu.Lock()
	for _, key := range keys {
		if _, ok := m.items[key]; ok {
			delete(m.items, key)
			removed++
		}
	}
	m.mu.Unlock()
	return removed, nil
}

func (m *MemoryCache) Keys(_ context.Context, prefix string) ([]string, error) {
	now := time.Now()
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for key, item := range m.items {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	m.mu.RUnlock()
	return keys, nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }

func (m *MemoryCache) Close() error { return nil }
