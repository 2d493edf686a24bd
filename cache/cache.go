// Package cache provides the time-boxed page cache in front of the global
// feed. Entries are keyed by the full request URI (including the page query
// parameter) so paginated responses never bleed into each other. Staleness up
// to the TTL is an accepted tradeoff; Clear drops everything on demand.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the documented cache window for the global feed page.
const DefaultTTL = 20 * time.Second

// Clock abstracts time.Now so expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// PageCache stores rendered response bodies. Multiple readers may race to
// repopulate an expired slot; last writer wins, which is safe because cached
// content is derivable and idempotent to recompute.
type PageCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte)
	Clear()
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// Memory is an in-process PageCache with per-entry expiry and an injectable
// clock. It backs tests and deployments without Redis.
type Memory struct {
	ttl     time.Duration
	clock   Clock
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory creates an in-process cache. Zero ttl falls back to DefaultTTL,
// a nil clock to the wall clock.
func NewMemory(ttl time.Duration, clock Clock) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Memory{ttl: ttl, clock: clock, entries: make(map[string]memoryEntry)}
}

// Get returns the cached body for key if the entry is still inside its TTL.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || !m.clock.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.body, true
}

// Set stores body under key with a fresh TTL window.
func (m *Memory) Set(key string, body []byte) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{body: body, expiresAt: m.clock.Now().Add(m.ttl)}
	m.mu.Unlock()
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
}
