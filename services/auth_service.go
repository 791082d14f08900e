package services

import (
	"errors"
	"log/slog"

	"user-directory/models"
	"user-directory/repository"
)

// AuthService handles authentication business logic
type AuthService struct {
	accounts AccountRepository
	sessions SessionStore
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(accounts AccountRepository, sessions SessionStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{accounts: accounts, sessions: sessions, logger: logger}
}

// Login authenticates a phone and password and opens a session. Unknown
// phone and wrong password are indistinguishable to the caller.
func (as *AuthService) Login(phone, password string) (*models.Session, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := as.accounts.GetByPhone(normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CompareHashAndPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if err := as.accounts.TouchLogin(account.ID); err != nil {
		// Login still succeeds; the timestamp is best effort.
		as.logger.Warn("failed to record login time", "account_id", account.ID, "error", err)
	}

	sess, err := as.sessions.Create(account.ID, account.Phone)
	if err != nil {
		return nil, err
	}

	as.logger.Info("login successful", "account_id", account.ID)

	return sess, nil
}

// Logout closes the session with the given id.
func (as *AuthService) Logout(sessionID string) {
	_ = as.sessions.Delete(sessionID)
}
