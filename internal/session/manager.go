// Package session keeps independent 2048 games for network surfaces.
//
// Each Session owns one engine State guarded by its own mutex, so several
// goroutines (websocket pumps, MCP handlers) may drive different sessions
// concurrently. IDs are case-insensitive; an empty ID gets a generated UUID.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session id")
	ErrNoStore              = errors.New("session has no save slot")
)

const maxIDLength = 64

// SlotFunc returns the save slot for a session ID. It may return nil when
// saving is not available.
type SlotFunc func(id string) t2048.RecordStore

// Options configures a Manager.
type Options struct {
	Slots      SlotFunc
	Spawn4Prob float64
	// Seed returns the spawner seed for a new session. Defaults to the clock.
	Seed func() int64
}

// Manager handles multiple game sessions.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	opts     Options
}

// Session is one running game.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
	state          *t2048.State
	store          t2048.RecordStore
}

// NewManager creates a new session manager.
func NewManager(opts Options) *Manager {
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create starts a new game under id. An empty id is replaced by a UUID.
func (m *Manager) Create(id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	key := strings.ToLower(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	state := t2048.NewState(t2048.NewSpawner(rand.New(rand.NewSource(m.opts.Seed())), m.opts.Spawn4Prob))
	state.Restart()

	s := &Session{
		ID:             key,
		CreatedAt:      now,
		lastAccessedAt: now,
		state:          state,
	}
	if m.opts.Slots != nil {
		s.store = m.opts.Slots(key)
	}
	m.sessions[key] = s
	return s, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[strings.ToLower(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate returns the session under id, creating it when missing.
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s, nil
		}
	}
	s, err := m.Create(id)
	if errors.Is(err, ErrSessionAlreadyExists) {
		// Lost a race with another creator.
		return m.Get(id)
	}
	return s, err
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, ok := m.sessions[key]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired removes sessions idle for longer than maxIdle and returns
// how many were removed.
func (m *Manager) CleanupExpired(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, s := range m.sessions {
		if s.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

func validateID(id string) error {
	if len(id) > maxIDLength || strings.ContainsAny(id, " \t\r\n/") {
		return ErrInvalidSessionID
	}
	return nil
}

// Do runs fn with exclusive access to the session's engine state.
func (s *Session) Do(fn func(*t2048.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = time.Now()
	return fn(s.state)
}

// Snapshot returns the current view of the game.
func (s *Session) Snapshot() t2048.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// LastAccessedAt reports when the session was last driven.
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// Save writes the game to the session's slot.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.Do(func(st *t2048.State) error {
		return st.SaveTo(ctx, s.store)
	})
}

// Load replaces the game with the session's saved record.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.Do(func(st *t2048.State) error {
		return st.LoadFrom(ctx, s.store)
	})
}
