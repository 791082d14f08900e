package services

import "errors"

// Common service-level errors
var (
	// Registration errors
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrWeakPassword  = errors.New("password must be at least 8 characters with an uppercase letter and a digit")
	ErrAccountExists = errors.New("phone number is already registered")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnauthorized       = errors.New("unauthorized access")
)
