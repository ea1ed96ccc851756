package memory

import (
	"context"
	"sync"

	"trivia-client/internal/domain"
)

// SessionStore is an in-process implementation of app.SessionStore. It does
// not survive restarts; use the file or Redis store for that.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Get(_ context.Context) (domain.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.Session{}, false, nil
	}
	return *s.session, true, nil
}

func (s *SessionStore) Set(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &session
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
