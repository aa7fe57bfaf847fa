package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Letter errors
	ErrLetterNotFound = errors.New("letter not found")
	ErrDraftNotFound  = errors.New("draft not found")
	// Recipient is correct but the letter has not been delivered yet
	ErrNotDeliverable = errors.New("letter not yet deliverable")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrNicknameTaken      = errors.New("nickname already in use")

	// Email verification errors
	ErrVerificationRequired = errors.New("email verification required")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrVerificationExpired  = errors.New("verification code expired")
	ErrVerificationMismatch = errors.New("verification code mismatch")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
