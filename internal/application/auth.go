package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	profile := profileFromFields(email, req.ProfileFields)
	if profile.FirstName == "" || profile.LastName == "" {
		return AuthResponse{}, fmt.Errorf("%w: first and last name are required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return AuthResponse{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	isAdmin := s.cfg.BootstrapAdminEmail != "" && strings.EqualFold(strings.TrimSpace(s.cfg.BootstrapAdminEmail), email)
	user, err := s.users.CreateWithOutboxTx(ctx, ports.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Profile:      profile,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
	}, ports.OutboxEvent{
		EventID:   uuid.New(),
		EventType: eventTypeUserRegistered,
		Payload: eventPayload(map[string]any{
			"email":         email,
			"is_admin":      isAdmin,
			"registered_at": now,
		}),
		OccurredAt: now,
	})
	if err != nil {
		return AuthResponse{}, err
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}

	lockKey := "login:" + email
	if s.lockouts != nil {
		state, lockErr := s.lockouts.Get(ctx, lockKey)
		if lockErr != nil {
			s.warn(ctx, "lockout lookup failed", "login", lockErr)
		} else if state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
			return AuthResponse{}, domain.ErrAccountLocked
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResponse{}, domain.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordLoginFailure(ctx, lockKey, req.IPAddress)
		return AuthResponse{}, domain.ErrInvalidCredentials
	}

	if s.lockouts != nil {
		_ = s.lockouts.Clear(ctx, lockKey)
	}
	return s.issueToken(user)
}

// Authenticate verifies a bearer token. An empty token is unauthenticated,
// a bad or expired one is ErrInvalidToken / ErrTokenExpired.
func (s *Service) Authenticate(_ context.Context, token string) (ports.AuthClaims, error) {
	if strings.TrimSpace(token) == "" {
		return ports.AuthClaims{}, domain.ErrUnauthenticated
	}
	return s.tokens.ParseAndValidate(token)
}

// RequireAdmin reads the admin attribute from the store, not from the token,
// so a revoked admin loses access immediately.
func (s *Service) RequireAdmin(ctx context.Context, claims ports.AuthClaims) (domain.User, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrForbidden
		}
		return domain.User{}, err
	}
	if !user.IsAdmin {
		return domain.User{}, domain.ErrForbidden
	}
	return user, nil
}

func (s *Service) issueToken(user domain.User) (AuthResponse, error) {
	now := s.nowFn()
	token, err := s.tokens.Sign(ports.AuthClaims{
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResponse{
		User:      toUserResponse(user),
		Token:     token,
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
	}, nil
}

func (s *Service) recordLoginFailure(ctx context.Context, lockKey, ip string) {
	if s.lockouts == nil {
		return
	}
	state, err := s.lockouts.RecordFailure(ctx, lockKey, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
	if err != nil {
		s.warn(ctx, "failed to record login failure", "record_login_failure", err)
		return
	}
	if state.LockedUntil != nil {
		s.logger.WarnContext(ctx, "login locked after repeated failures",
			"operation", "record_login_failure",
			"outcome", "locked",
			"ip", ip,
			"failed_count", state.FailedCount,
		)
	}
}
