// Package auth exchanges Google ID tokens for opaque session tokens. The
// federated flow itself (credential pickers, consent) lives in the mobile
// app; this side only verifies the token and issues a session.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// TokenVerifier verifies a provider-issued ID token and returns the subject's
// email. A single attempt; verification failure surfaces to the caller.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (email string, err error)
}

type session struct {
	email     string
	expiresAt time.Time
}

// SessionStore holds sessions in memory with a fixed TTL. Sessions do not
// survive a restart; the app simply signs in again.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a new opaque session token for the given email.
func (s *SessionStore) Create(email string) string {
	token := newToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		email:     email,
		expiresAt: s.now().Add(s.ttl),
	}
	return token
}

// Lookup resolves a session token to its email. Expired sessions are pruned
// on access.
func (s *SessionStore) Lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}
	return sess.email, true
}

func newToken() string {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return "sess_" + hex.EncodeToString([]byte(time.Now().String()))
	}
	return "sess_" + hex.EncodeToString(bytes)
}
