package domain

import (
	"fmt"
	"unicode"
)

const (
	minPasswordLength = 8
	// bcrypt silently truncates beyond 72 bytes.
	maxPasswordLength = 72
)

// ValidatePassword enforces the storefront password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d bytes", ErrInvalidInput, maxPasswordLength)
	}

	var (
		hasLetter bool
		hasDigit  bool
	)
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must include a letter and a digit", ErrInvalidInput)
	}
	return nil
}
