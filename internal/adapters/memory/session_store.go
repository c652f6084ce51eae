// Package memory provides process-local implementations of the portal's
// storage ports. State is lost on restart; use the redis adapters for
// anything shared between instances.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/ports"
)

// SessionStore is a mutex-guarded map of sessions. Expired entries are
// dropped on read and swept on write; past the limit the session closest
// to expiry is evicted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	bounds   bounds[domainauth.Session]
	now      func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domainauth.Session),
		bounds: bounds[domainauth.Session]{
			limit:  DefaultMaxSessions,
			expiry: func(s domainauth.Session) time.Time { return s.ExpiresAt },
		},
		now: time.Now,
	}
}

// WithLimit caps how many sessions are held; n below 1 is treated as 1.
func (s *SessionStore) WithLimit(n int) *SessionStore {
	s.bounds.limit = max(n, 1)
	return s
}

// Len reports how many sessions are held, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// WithClock replaces the time source; intended for tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	now := s.now()
	if sess.Expired(now) {
		return errors.New("session is expired")
	}
	s.mu.Lock()
	s.bounds.admit(s.sessions, sess.ID, now)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// List returns stored session IDs in sorted order.
func (s *SessionStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}
