package auth

import (
	"sync"
	"time"
)

// SessionStore keeps live sessions keyed by token hash.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions live for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put starts a session for userID under tokenHash.
func (s *SessionStore) Put(tokenHash, userID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{TokenHash: tokenHash, UserID: userID, ExpiresAt: s.now().Add(s.ttl)}
	s.sessions[tokenHash] = sess
	return sess
}

// Lookup returns a live session; expired sessions are evicted.
func (s *SessionStore) Lookup(tokenHash string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tokenHash]
	if !ok {
		return Session{}, false
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, tokenHash)
		return Session{}, false
	}
	return sess, true
}

// Delete ends a session.
func (s *SessionStore) Delete(tokenHash string) {
	s.mu.Lock()
	delete(s.sessions, tokenHash)
	s.mu.Unlock()
}

// Sweep evicts every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for hash, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, hash)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
