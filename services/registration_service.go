package services

import (
	"errors"
	"log/slog"
	"time"

	"user-directory/models"
	"user-directory/repository"
)

// RegistrationService handles the phone registration flow: normalize the
// phone, issue an OTP challenge, verify the code, then complete the account
// with a password. Codes are written to the application log; no SMS gateway
// is attached.
type RegistrationService struct {
	accounts   AccountRepository
	challenges ChallengeStore
	sessions   SessionStore
	logger     *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(accounts AccountRepository, challenges ChallengeStore, sessions SessionStore, logger *slog.Logger) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		accounts:   accounts,
		challenges: challenges,
		sessions:   sessions,
		logger:     logger,
	}
}

// StartResult describes an opened registration challenge.
type StartResult struct {
	ChallengeID string
	Phone       string
	ExpiresAt   time.Time
}

// Start normalizes the phone and issues a fresh OTP challenge. A phone that
// already has an account is rejected before any code is sent.
func (rs *RegistrationService) Start(phone string) (*StartResult, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	if _, err := rs.accounts.GetByPhone(normalized); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ch, err := rs.challenges.Issue(normalized)
	if err != nil {
		return nil, err
	}

	// Development delivery channel; a real deployment hooks up SMS here.
	rs.logger.Info("verification code issued",
		"phone", normalized,
		"challenge_id", ch.ID,
		"code", ch.Code,
	)

	return &StartResult{ChallengeID: ch.ID, Phone: ch.Phone, ExpiresAt: ch.ExpiresAt}, nil
}

// Resend rotates the code for an open challenge, honoring the 60 second
// resend window. The remaining wait is returned alongside ErrResendTooSoon.
func (rs *RegistrationService) Resend(challengeID string) (*StartResult, time.Duration, error) {
	ch, wait, err := rs.challenges.Resend(challengeID)
	if err != nil {
		return nil, wait, err
	}

	rs.logger.Info("verification code reissued",
		"phone", ch.Phone,
		"challenge_id", ch.ID,
		"code", ch.Code,
	)

	return &StartResult{ChallengeID: ch.ID, Phone: ch.Phone, ExpiresAt: ch.ExpiresAt}, 0, nil
}

// Verify checks the submitted code and marks the challenge verified.
func (rs *RegistrationService) Verify(challengeID, code string) error {
	_, err := rs.challenges.Verify(challengeID, code)
	return err
}

// Complete finishes the flow: the challenge must have been verified, the
// password must satisfy the rules, and the phone must still be unregistered.
// A login session is created right away so the user lands signed in.
func (rs *RegistrationService) Complete(challengeID, password string) (*models.Account, *models.Session, error) {
	if err := CheckPasswordRules(password); err != nil {
		return nil, nil, err
	}

	ch, err := rs.challenges.Consume(challengeID)
	if err != nil {
		return nil, nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	account, err := rs.accounts.Create(ch.Phone, hash)
	if err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, nil, ErrAccountExists
		}
		return nil, nil, err
	}

	sess, err := rs.sessions.Create(account.ID, account.Phone)
	if err != nil {
		return nil, nil, err
	}

	rs.logger.Info("registration completed", "account_id", account.ID, "phone", account.Phone)

	return account, sess, nil
}
