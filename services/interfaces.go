package services

import (
	"time"

	"user-directory/models"
	"user-directory/otp"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	GetByPhone(phone string) (*models.Account, error)
	Create(phone, passwordHash string) (*models.Account, error)
	TouchLogin(id string) error
}

// ChallengeStore defines the interface for OTP challenge management
type ChallengeStore interface {
	Issue(phone string) (*otp.Challenge, error)
	Resend(id string) (*otp.Challenge, time.Duration, error)
	Verify(id, code string) (*otp.Challenge, error)
	Consume(id string) (*otp.Challenge, error)
}

// SessionStore defines the interface for session management
type SessionStore interface {
	Create(accountID, phone string) (*models.Session, error)
	Get(sessionID string) (*models.Session, error)
	Delete(sessionID string) error
}
