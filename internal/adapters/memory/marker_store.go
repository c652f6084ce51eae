package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/target/campus-portal/internal/ports"
)

type marker struct {
	path      string
	expiresAt time.Time // zero means no expiry
}

// MarkerStore holds one pending destination per visitor, at most
// DefaultMaxMarkers of them unless WithLimit says otherwise.
type MarkerStore struct {
	mu      sync.Mutex
	markers map[string]marker
	bounds  bounds[marker]
	now     func() time.Time
}

var _ ports.MarkerStore = (*MarkerStore)(nil)

// NewMarkerStore creates an empty store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		markers: make(map[string]marker),
		bounds:  bounds[marker]{limit: DefaultMaxMarkers, expiry: func(mk marker) time.Time { return mk.expiresAt }},
		now:     time.Now,
	}
}

// WithLimit caps how many markers are held; n below 1 is treated as 1.
func (m *MarkerStore) WithLimit(n int) *MarkerStore {
	m.bounds.limit = max(n, 1)
	return m
}

// WithClock replaces the time source; intended for tests.
func (m *MarkerStore) WithClock(now func() time.Time) *MarkerStore {
	m.now = now
	return m
}

func (m *MarkerStore) Remember(_ context.Context, visitor, path string, ttl time.Duration) error {
	if visitor == "" {
		return errors.New("visitor ID cannot be empty")
	}
	now := m.now()
	mk := marker{path: path}
	if ttl > 0 {
		mk.expiresAt = now.Add(ttl)
	}
	m.mu.Lock()
	m.bounds.admit(m.markers, visitor, now)
	m.markers[visitor] = mk
	m.mu.Unlock()
	return nil
}

func (m *MarkerStore) Consume(_ context.Context, visitor string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mk, ok := m.markers[visitor]
	if !ok {
		return "", false, nil
	}
	delete(m.markers, visitor)
	if !mk.expiresAt.IsZero() && !m.now().Before(mk.expiresAt) {
		return "", false, nil
	}
	return mk.path, true, nil
}

// Len reports how many markers are held, expired ones included.
func (m *MarkerStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markers)
}
