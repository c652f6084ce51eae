package memory

import "time"

const (
	// DefaultMaxMarkers caps pending destinations; every cookieless visit mints a visitor.
	DefaultMaxMarkers = 10_000
	// DefaultMaxSessions caps stored sessions.
	DefaultMaxSessions = 50_000

	// sweepInterval bounds how often a write scans for expired entries.
	sweepInterval = time.Minute
)

// bounds keeps a map within a size limit, dropping expired entries first and
// then the entry that would expire soonest. Callers hold the store's lock.
type bounds[V any] struct {
	limit     int
	lastSweep time.Time
	expiry    func(V) time.Time // zero means never
}

// admit makes room for key in m before a write at now.
func (b *bounds[V]) admit(m map[string]V, key string, now time.Time) {
	if now.Sub(b.lastSweep) >= sweepInterval || len(m) >= b.limit {
		for k, v := range m {
			if exp := b.expiry(v); !exp.IsZero() && !now.Before(exp) {
				delete(m, k)
			}
		}
		b.lastSweep = now
	}
	if _, ok := m[key]; ok {
		return
	}
	for len(m) >= b.limit {
		b.evictSoonest(m)
	}
}

func (b *bounds[V]) evictSoonest(m map[string]V) {
	var (
		victim string
		first  time.Time
		found  bool
	)
	for k, v := range m {
		exp := b.expiry(v)
		if exp.IsZero() {
			if !found {
				victim, found = k, true
			}
			continue
		}
		if !found || first.IsZero() || exp.Before(first) {
			victim, first, found = k, exp, true
		}
	}
	if found {
		delete(m, victim)
	}
}
