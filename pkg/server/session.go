package server

import (
	"net"
	"sort"
	"sync"
	"sync/atomic"
)

// Session represents one live connection plus its optional authenticated
// identity. The session ID is an opaque value assigned at accept time;
// transport addresses are never used as identity.
type Session struct {
	ID   uint64
	Conn *SafeConn

	mu       sync.RWMutex
	username string // "" while anonymous
}

// Username returns the authenticated username, or "" while anonymous.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.username
}

// Authenticated reports whether the session is logged in.
func (s *Session) Authenticated() bool {
	return s.Username() != ""
}

// SessionManager owns the session set. Every mutation and every
// whole-collection iteration goes through its lock; the raw map is never
// exposed.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	nextID   uint64
	metrics  *Metrics
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[uint64]*Session),
		nextID:   1,
	}
}

// SetMetrics attaches metrics to the session manager.
func (sm *SessionManager) SetMetrics(metrics *Metrics) {
	sm.metrics = metrics
}

// Register creates a session for a freshly accepted connection.
func (sm *SessionManager) Register(conn net.Conn) *Session {
	sessionID := atomic.AddUint64(&sm.nextID, 1) - 1

	sess := &Session{
		ID:   sessionID,
		Conn: NewSafeConn(conn),
	}

	sm.mu.Lock()
	sm.sessions[sessionID] = sess
	count := len(sm.sessions)
	sm.mu.Unlock()

	if sm.metrics != nil {
		sm.metrics.RecordActiveSessions(count)
		sm.metrics.RecordSessionCreated()
	}

	return sess
}

// Get returns a session by ID.
func (sm *SessionManager) Get(sessionID uint64) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sess, ok := sm.sessions[sessionID]
	return sess, ok
}

// SetUser sets or clears the authenticated identity of a session. An
// empty username returns the session to anonymous.
func (sm *SessionManager) SetUser(sessionID uint64, username string) bool {
	sess, ok := sm.Get(sessionID)
	if !ok {
		return false
	}

	sess.mu.Lock()
	sess.username = username
	sess.mu.Unlock()
	return true
}

// Unregister removes a session and closes its connection. Safe to call
// for a session that is already gone.
func (sm *SessionManager) Unregister(sessionID uint64) {
	sm.mu.Lock()
	sess, ok := sm.sessions[sessionID]
	if !ok {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, sessionID)
	count := len(sm.sessions)
	sm.mu.Unlock()

	if sm.metrics != nil {
		sm.metrics.RecordActiveSessions(count)
		sm.metrics.RecordSessionDisconnected()
	}

	sess.Conn.Close()
}

// Snapshot returns all live sessions. Callers iterate the copy, so
// concurrent register/unregister never corrupts iteration; a session
// removed after the snapshot simply fails its write and is reaped.
func (sm *SessionManager) Snapshot() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*Session, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		sessions = append(sessions, sess)
	}

	// Registry iteration order is accept order
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions
}

// FindByUsername returns every session currently authenticated as the
// given username. Multiple concurrent logins of one account are allowed,
// so the result may have more than one entry.
func (sm *SessionManager) FindByUsername(username string) []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	var out []*Session
	for _, sess := range sm.sessions {
		if sess.Username() == username {
			out = append(out, sess)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// CloseAll closes every session. Used at shutdown.
func (sm *SessionManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, sess := range sm.sessions {
		sess.Conn.Close()
	}
	sm.sessions = make(map[uint64]*Session)
}
