package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failed attempts.
	ErrAccountLocked = errors.New("account locked")
	// ErrUnauthenticated means no credential was presented at all.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	// ErrForbidden is the insufficient-privilege outcome for authenticated callers.
	ErrForbidden         = errors.New("insufficient privilege")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrRateLimited       = errors.New("rate limited")
	// ErrPersistence wraps any storage failure that aborted a unit of work.
	// Callers receive a generic message; detail stays in logs.
	ErrPersistence = errors.New("persistence failure")
)
