package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/maglieria/storefront/internal/domain"
)

// RequestPasswordReset never reveals whether the address is registered.
// Only a malformed address is reported back to the caller.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.warn(ctx, "password reset lookup failed", "request_password_reset", err)
		}
		return nil
	}

	rawToken, err := randomHex(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiresAt := s.nowFn().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hashToken(rawToken), expiresAt); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, s.resetLink(rawToken)); err != nil {
		s.warn(ctx, "password reset email failed", "send_password_reset", err, "user_id", user.ID)
	}
	return nil
}

// ResetPassword consumes a reset token exactly once.
func (s *Service) ResetPassword(ctx context.Context, req PasswordResetRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.users.ConsumeResetToken(ctx, hashToken(token), passwordHash, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: reset token is invalid or expired", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if s.lockouts != nil {
		if user, getErr := s.users.GetByID(ctx, userID); getErr == nil {
			_ = s.lockouts.Clear(ctx, "login:"+user.Email)
		}
	}
	return nil
}

func (s *Service) resetLink(rawToken string) string {
	base := strings.TrimRight(s.cfg.ResetURLBase, "/")
	if base == "" {
		base = "http://localhost:5173/reset-password"
	}
	return base + "/" + url.PathEscape(rawToken)
}
