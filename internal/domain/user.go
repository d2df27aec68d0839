package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ShippingProfile is the contact and delivery block shared by users and orders.
type ShippingProfile struct {
	FirstName string
	LastName  string
	Email     string
	Address   string
	City      string
	Province  string
	ZipCode   string
	Country   string
	Phone     string
}

// Validate checks the fields an order cannot be placed without.
func (p ShippingProfile) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if _, err := NormalizeEmail(p.Email); err != nil {
		return err
	}
	return nil
}

// Normalized trims every field and lowercases the email.
func (p ShippingProfile) Normalized() ShippingProfile {
	return ShippingProfile{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		Address:   strings.TrimSpace(p.Address),
		City:      strings.TrimSpace(p.City),
		Province:  strings.TrimSpace(p.Province),
		ZipCode:   strings.TrimSpace(p.ZipCode),
		Country:   strings.TrimSpace(p.Country),
		Phone:     strings.TrimSpace(p.Phone),
	}
}

// User is a registered customer. Admin capability is an explicit attribute.
type User struct {
	ID                  int64
	Email               string
	PasswordHash        string
	Profile             ShippingProfile
	IsAdmin             bool
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NormalizeEmail canonicalizes and validates email format before persistence/comparison.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return trimmed, nil
}
