package models

import "time"

// Account is a registered application login, keyed by phone number.
// PasswordHash is a bcrypt hash and never leaves the server.
type Account struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// StoredAccount is the serialized shape of an Account. The hash has to be
// persisted, so the blob form cannot reuse the API-facing JSON tags.
type StoredAccount struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// Session is an in-memory login session for an account.
type Session struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Phone      string    `json:"phone"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// RegisterRequest starts a phone registration and issues an OTP challenge.
type RegisterRequest struct {
	Phone string `json:"phone" validate:"required,min=8"`
}

// ResendOTPRequest re-issues the code for an open challenge.
type ResendOTPRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

// VerifyOTPRequest submits the code the user received.
type VerifyOTPRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// CompleteRegistrationRequest finishes the flow with the account password.
// Password rules follow the registration screen: at least 8 characters, one
// uppercase letter and one digit.
type CompleteRegistrationRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	Confirm     string `json:"confirm" validate:"required,eqfield=Password"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,min=8"`
	Password string `json:"password" validate:"required"`
}
