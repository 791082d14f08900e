package otp

import "errors"

var (
	ErrChallengeNotFound = errors.New("verification challenge not found or expired")
	ErrResendTooSoon     = errors.New("code was sent recently, wait before resending")
	ErrCodeMismatch      = errors.New("verification code does not match")
	ErrTooManyAttempts   = errors.New("too many verification attempts")
	ErrNotVerified       = errors.New("phone number has not been verified")
)
