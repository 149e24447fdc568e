package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/intern-matcher/internal/matching"
)

// Store keeps the sessions of all users of a server.
type Store struct {
	catalog []matching.Listing
	cfg     Config
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(listings []matching.Listing, cfg Config, logger *zap.Logger) *Store {
	return &Store{
		catalog:  listings,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (s *Store) Create() *Session {
	sess := New(s.catalog, s.cfg, s.logger)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
