package gameserver

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAlreadyOnline is returned by Register when the player already has a session.
var ErrAlreadyOnline = errors.New("player already online")

// SessionManager indexes the sessions of players in the world by GUID.
// Thread-safe for concurrent access.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
}

// NewSessionManager creates an empty manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[uint64]*Session, 256)}
}

// Register adds s. A player has at most one session.
func (sm *SessionManager) Register(s *Session) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[s.GUID()]; ok {
		return fmt.Errorf("player %d: %w", s.GUID(), ErrAlreadyOnline)
	}
	sm.sessions[s.GUID()] = s
	return nil
}

// Unregister removes s if it is still the registered session of its player.
func (sm *SessionManager) Unregister(s *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.sessions[s.GUID()] == s {
		delete(sm.sessions, s.GUID())
	}
}

// Get returns the session of guid.
func (sm *SessionManager) Get(guid uint64) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[guid]
	return s, ok
}

// Count returns the number of registered sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for every session until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	snapshot := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		snapshot = append(snapshot, s)
	}
	sm.mu.RUnlock()

	for _, s := range snapshot {
		if !fn(s) {
			return
		}
	}
}
