// Package cache stores serialized report payloads between entity writes.
//
// Keys are namespaced by a generation number. Invalidate bumps the
// generation, so every payload cached before a write becomes unreachable at
// once and expires on its own TTL.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a byte-oriented payload cache.
//
// Callers read Generation before building a payload and pass it to Set. A
// payload built while a write invalidated the cache is stored under the old
// generation and never served.
type Cache interface {
	// Generation returns the current generation number.
	Generation(ctx context.Context) (int64, error)

	// Get returns the payload stored under key in generation gen, if present.
	Get(ctx context.Context, gen int64, key string) ([]byte, bool, error)

	// Set stores value under key in generation gen for the cache's TTL.
	Set(ctx context.Context, gen int64, key string, value []byte) error

	// Invalidate starts a new generation.
	Invalidate(ctx context.Context) error
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Generation(context.Context) (int64, error)                { return 0, nil }
func (Nop) Get(context.Context, int64, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, int64, string, []byte) error         { return nil }
func (Nop) Invalidate(context.Context) error                         { return nil }

// Memory is a process-local cache used when Redis is not configured. It only
// holds entries of the current generation.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	gen     int64
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Generation(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen, nil
}

func (m *Memory) Get(_ context.Context, gen int64, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return nil, false, nil
	}
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set drops values built for a generation that has since been invalidated.
func (m *Memory) Set(_ context.Context, gen int64, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return nil
	}
	m.entries[key] = memoryEntry{
		value:   append([]byte(nil), value...),
		expires: m.now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.entries = make(map[string]memoryEntry)
	return nil
}
