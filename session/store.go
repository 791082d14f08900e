package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"user-directory/models"
)

const sessionTTL = 30 * 24 * time.Hour

// Store keeps login sessions in memory. Sessions expire after 30 days and
// an hourly routine sweeps the expired ones out.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	done     chan struct{}
	once     sync.Once
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		done:     make(chan struct{}),
	}
}

// Create starts a new session for the given account.
func (s *Store) Create(accountID, phone string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := &models.Session{
		ID:         uuid.New().String(),
		AccountID:  accountID,
		Phone:      phone,
		ExpiresAt:  now.Add(sessionTTL),
		CreatedAt:  now,
		LastUsedAt: now,
	}

	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the session with the given id, or nil if it is unknown or
// expired.
func (s *Store) Get(sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, nil
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}

	return sess, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// DeleteByAccount removes every session belonging to an account.
func (s *Store) DeleteByAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.AccountID == accountID {
			delete(s.sessions, id)
		}
	}
}

// CleanupExpired removes all expired sessions.
func (s *Store) CleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if time.Now().After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

// StartCleanupRoutine sweeps expired sessions hourly until Stop is called.
func (s *Store) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.CleanupExpired()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the cleanup routine.
func (s *Store) Stop() {
	s.once.Do(func() { close(s.done) })
}
