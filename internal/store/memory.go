// internal/store/memory.go
//
// In-memory store of live play sessions.
// A session binds one running game.Engine to the exercise it plays and the
// player who owns it. Sessions are ephemeral: they are lost on restart and
// swept after a period of inactivity, which closes their engines so pending
// deferred transitions never fire.
//
// Characteristics:
//   - Sessions keyed by a random UUID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Engines are closed outside the store lock.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lingoplay/internal/content"
	"github.com/robalobadob/lingoplay/internal/game"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is one player's run of one exercise.
type Session struct {
	ID          string
	ExerciseID  string
	Type        content.Type
	UserID      string
	AnonymousID string
	Engine      game.Engine
	Started     time.Time

	lastSeen atomic.Int64 // unix nanos
}

// NewSession wraps an engine in a session with a fresh id.
func NewSession(exerciseID string, t content.Type, e game.Engine, now time.Time) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		ExerciseID: exerciseID,
		Type:       t,
		Engine:     e,
		Started:    now,
	}
	s.Touch(now)
	return s
}

// Touch records activity on the session.
func (s *Session) Touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen is the time of the latest activity.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Owns reports whether the given player may drive this session.
func (s *Session) Owns(userID, anonID string) bool {
	if s.UserID != "" {
		return s.UserID == userID
	}
	return s.AnonymousID != "" && s.AnonymousID == anonID
}

// Store defines the persistence interface for play sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by id and marks it as active.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session and closes its engine.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle since before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session without id")
	}
	m.mu.Lock()
	old := m.sessions[s.ID]
	m.sessions[s.ID] = s
	m.mu.Unlock()
	if old != nil && old != s {
		old.Engine.Close()
	}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.Touch(m.now())
	return s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Engine.Close()
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	var idle []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Engine.Close()
		log.Debug().Str("session", s.ID).Str("exerciseId", s.ExerciseID).Msg("session expired")
	}
	return len(idle)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
