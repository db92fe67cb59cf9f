// ABOUTME: In-memory session server holding sessions in RAM
// ABOUTME: Suitable for single-process deployments; sessions vanish on restart

package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// RAMServer serves sessions held entirely in RAM.
//
// This is a valid session server for real deployment when losing all session
// state on process restart is acceptable, which it is here: a lost session
// only forces the user back through the selection step. Expired sessions are
// purged lazily whenever a new session is created.
type RAMServer struct {
	mu       sync.Mutex
	sessions map[string]*ramSession
	ttl      time.Duration
	now      func() time.Time // overridable for tests
}

// NewRAMServer returns a RAM-backed session server whose sessions expire
// after ttl. A non-positive ttl falls back to DefaultTTL.
func NewRAMServer(ttl time.Duration) *RAMServer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RAMServer{
		sessions: make(map[string]*ramSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints a new session with a crypto/rand identifier.
func (s *RAMServer) Create() (Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked()

	sess := &ramSession{
		id:        id,
		values:    make(map[string]any),
		expiresAt: s.now().Add(s.ttl),
	}
	s.sessions[id] = sess
	return sess, nil
}

// Get returns the live session with the given id. Expired sessions are
// treated as absent and removed.
func (s *RAMServer) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

// Len returns the number of live sessions (expired ones may still count
// until the next purge).
func (s *RAMServer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// purgeExpiredLocked drops expired sessions. Caller must hold s.mu.
func (s *RAMServer) purgeExpiredLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// ramSession is a Session held in process memory.
type ramSession struct {
	mu        sync.RWMutex
	id        string
	values    map[string]any
	expiresAt time.Time
}

func (s *ramSession) ID() string {
	return s.id
}

func (s *ramSession) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *ramSession) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

func (s *ramSession) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}

// generateSessionID returns a hex-encoded 32-byte random identifier.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
