package redis

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a single-process replacement used when Redis is not configured.
type MemoryStore struct {
	mu        sync.Mutex
	now       func() time.Time
	claims    map[string]time.Time
	windows   map[string]window
	nextSweep time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		claims:  make(map[string]time.Time),
		windows: make(map[string]window),
	}
}

func (m *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	if until, ok := m.claims[key]; ok && now.Before(until) {
		return false, nil
	}
	m.claims[key] = now.Add(ttl)
	return true, nil
}

func (m *MemoryStore) Allow(_ context.Context, key string, limit int, span time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	w := m.windows[key]
	if !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(span)}
	}
	w.count++
	m.windows[key] = w
	return w.count <= limit, nil
}

// sweep drops expired claims and windows at most once per sweepInterval. Callers hold m.mu.
func (m *MemoryStore) sweep(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	m.nextSweep = now.Add(sweepInterval)
	for key, until := range m.claims {
		if !now.Before(until) {
			delete(m.claims, key)
		}
	}
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
}

func (m *MemoryStore) HealthCheck(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
