// Package otp keeps phone verification challenges in memory while a
// registration is in flight. Codes expire quickly and are never persisted.
package otp

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	challengeTTL = 5 * time.Minute
	resendWindow = 60 * time.Second
	maxAttempts  = 5
)

// Challenge is one pending phone verification.
type Challenge struct {
	ID         string
	Phone      string
	Code       string
	ExpiresAt  time.Time
	Attempts   int
	Verified   bool
	LastSentAt time.Time
}

// Store holds open challenges keyed by challenge id.
type Store struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	done       chan struct{}
	once       sync.Once
}

func NewStore() *Store {
	return &Store{
		challenges: make(map[string]*Challenge),
		done:       make(chan struct{}),
	}
}

// Issue opens a new challenge for the given phone with a fresh code.
func (s *Store) Issue(phone string) (*Challenge, error) {
	code, err := genCode()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ch := &Challenge{
		ID:         uuid.New().String(),
		Phone:      phone,
		Code:       code,
		ExpiresAt:  now.Add(challengeTTL),
		LastSentAt: now,
	}

	// Only one open challenge per phone
	for id, existing := range s.challenges {
		if existing.Phone == phone {
			delete(s.challenges, id)
		}
	}

	s.challenges[ch.ID] = ch
	return ch, nil
}

// Get returns the challenge with the given id, or nil when it is unknown or
// expired.
func (s *Store) Get(id string) *Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, exists := s.challenges[id]
	if !exists || time.Now().After(ch.ExpiresAt) {
		return nil
	}

	copied := *ch
	return &copied
}

// Resend rotates the code of an open challenge. It refuses to resend inside
// the 60 second window, returning the remaining wait.
func (s *Store) Resend(id string) (*Challenge, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, exists := s.challenges[id]
	if !exists || time.Now().After(ch.ExpiresAt) {
		return nil, 0, ErrChallengeNotFound
	}

	if wait := time.Until(ch.LastSentAt.Add(resendWindow)); wait > 0 {
		return nil, wait, ErrResendTooSoon
	}

	code, err := genCode()
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	ch.Code = code
	ch.ExpiresAt = now.Add(challengeTTL)
	ch.LastSentAt = now
	ch.Attempts = 0

	copied := *ch
	return &copied, 0, nil
}

// Verify checks a submitted code. A challenge is consumed by too many wrong
// attempts; a correct code marks it verified so registration can complete.
func (s *Store) Verify(id, code string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, exists := s.challenges[id]
	if !exists || time.Now().After(ch.ExpiresAt) {
		return nil, ErrChallengeNotFound
	}

	if ch.Attempts >= maxAttempts {
		delete(s.challenges, id)
		return nil, ErrTooManyAttempts
	}

	if ch.Code != code {
		ch.Attempts++
		if ch.Attempts >= maxAttempts {
			delete(s.challenges, id)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrCodeMismatch
	}

	ch.Verified = true
	copied := *ch
	return &copied, nil
}

// Consume removes a verified challenge once registration completes. It fails
// when the challenge was never verified.
func (s *Store) Consume(id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, exists := s.challenges[id]
	if !exists || time.Now().After(ch.ExpiresAt) {
		return nil, ErrChallengeNotFound
	}
	if !ch.Verified {
		return nil, ErrNotVerified
	}

	delete(s.challenges, id)
	copied := *ch
	return &copied, nil
}

// CleanupExpired removes all expired challenges.
func (s *Store) CleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.challenges {
		if time.Now().After(ch.ExpiresAt) {
			delete(s.challenges, id)
		}
	}
}

// StartCleanupRoutine sweeps expired challenges every minute until Stop is
// called.
func (s *Store) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
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

// genCode generates a random 6-digit code as a zero-padded string.
func genCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%06d", n%1000000), nil
}
