package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shop-catalog/internal/logger"
)

var sessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "shop_catalog_sessions_open",
	Help: "Mounted catalog sessions",
})

// ErrSessionNotFound is returned for unknown or already closed session ids
var ErrSessionNotFound = errors.New("catalog session not found")

type session struct {
	store    *Store
	lastSeen time.Time
}

// Sessions tracks one Store per mounted catalog view
type Sessions struct {
	newStore func() *Store
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessions creates an empty registry; newStore builds the store for each mount
func NewSessions(newStore func() *Store) *Sessions {
	return &Sessions{
		newStore: newStore,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

// Open mounts a new session and starts its initial load in the background
func (m *Sessions) Open() (string, *Store) {
	id := uuid.New().String()
	st := m.newStore()

	m.mu.Lock()
	m.sessions[id] = &session{store: st, lastSeen: m.now()}
	m.mu.Unlock()
	sessionsOpen.Inc()

	m.Refresh(id, st)
	return id, st
}

// Refresh re-fetches the catalog for a session without blocking the caller
func (m *Sessions) Refresh(id string, st *Store) {
	go func() {
		if err := st.Load(context.Background()); err != nil && !errors.Is(err, ErrStoreClosed) {
			logger.Warnf("catalog session %s: load failed: %v", id, err)
		}
	}()
}

// Get returns the store for id and marks the session as active
func (m *Sessions) Get(id string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = m.now()
	return s.store, nil
}

// Close unmounts a session
func (m *Sessions) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.store.Close()
	sessionsOpen.Dec()
	return nil
}

// Sweep closes sessions idle for longer than maxIdle and returns how many were closed
func (m *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.store.Close()
		sessionsOpen.Dec()
	}
	return len(stale)
}

// Len returns the number of mounted sessions
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll unmounts every session
func (m *Sessions) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = map[string]*session{}
	m.mu.Unlock()

	for _, s := range all {
		s.store.Close()
		sessionsOpen.Dec()
	}
}
