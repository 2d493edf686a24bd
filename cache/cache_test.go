package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced Clock for deterministic expiry tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryGetMissOnUnknownKey(t *testing.T) {
	m := NewMemory(DefaultTTL, newFakeClock())
	_, ok := m.Get("/?page=1")
	assert.False(t, ok)
}

func TestMemoryServesEntryUntilTTLExpires(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(20*time.Second, clock)

	m.Set("/", []byte("rendered index"))

	body, ok := m.Get("/")
	require.True(t, ok)
	assert.Equal(t, []byte("rendered index"), body)

	// Still warm just inside the window.
	clock.advance(19 * time.Second)
	_, ok = m.Get("/")
	assert.True(t, ok)

	// Gone once the window elapses.
	clock.advance(time.Second)
	_, ok = m.Get("/")
	assert.False(t, ok)
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(20*time.Second, clock)

	m.Set("/?page=1", []byte("page one"))
	m.Set("/?page=2", []byte("page two"))

	one, ok := m.Get("/?page=1")
	require.True(t, ok)
	two, ok2 := m.Get("/?page=2")
	require.True(t, ok2)
	assert.NotEqual(t, one, two)
}

func TestMemorySetRefreshesWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(20*time.Second, clock)

	m.Set("/", []byte("v1"))
	clock.advance(15 * time.Second)
	m.Set("/", []byte("v2"))
	clock.advance(15 * time.Second)

	body, ok := m.Get("/")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), body)
}

func TestMemoryClearDropsEverything(t *testing.T) {
	m := NewMemory(20*time.Second, newFakeClock())
	m.Set("/", []byte("a"))
	m.Set("/?page=2", []byte("b"))

	m.Clear()

	_, ok := m.Get("/")
	assert.False(t, ok)
	_, ok = m.Get("/?page=2")
	assert.False(t, ok)
}

func TestMemoryZeroTTLFallsBackToDefault(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(0, clock)
	m.Set("/", []byte("x"))

	clock.advance(DefaultTTL - time.Second)
	_, ok := m.Get("/")
	assert.True(t, ok)
}
