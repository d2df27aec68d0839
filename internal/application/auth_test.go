package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maglieria/storefront/internal/application"
	"github.com/maglieria/storefront/internal/application/apptest"
	"github.com/maglieria/storefront/internal/domain"
	"github.com/maglieria/storefront/internal/ports"
)

const testPassword = "maglia2024"

func registerUser(t *testing.T, f *apptest.Fixture, email string) application.AuthResponse {
	t.Helper()
	res, err := f.Service.Register(context.Background(), application.RegisterRequest{
		Email:         email,
		Password:      testPassword,
		ProfileFields: application.ProfileFields{FirstName: "Test", LastName: "User"},
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", email, err)
	}
	return res
}

func claimsFor(t *testing.T, f *apptest.Fixture, token string) ports.AuthClaims {
	t.Helper()
	claims, err := f.Service.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	return claims
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()

	reg := registerUser(t, f, "  Mario@Example.com ")
	if reg.Token == "" || reg.User.Email != "mario@example.com" {
		t.Fatalf("unexpected register response: %+v", reg)
	}
	if reg.User.IsAdmin {
		t.Fatalf("regular users must not be admins")
	}
	if reg.ExpiresIn != 3600 {
		t.Fatalf("expected 1h token, got %ds", reg.ExpiresIn)
	}
	if len(f.Users.Events) != 1 || f.Users.Events[0].EventType != "user.registered" {
		t.Fatalf("expected user.registered event")
	}

	if _, err := f.Service.Register(ctx, application.RegisterRequest{
		Email:         "mario@example.com",
		Password:      testPassword,
		ProfileFields: application.ProfileFields{FirstName: "Mario", LastName: "Rossi"},
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}

	login, err := f.Service.Login(ctx, application.LoginRequest{Email: "mario@example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims := claimsFor(t, f, login.Token)
	if claims.UserID != reg.User.ID || claims.Email != "mario@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	cases := map[string]application.RegisterRequest{
		"bad email":    {Email: "nope", Password: testPassword, ProfileFields: application.ProfileFields{FirstName: "A", LastName: "B"}},
		"weak":         {Email: "a@example.com", Password: "short", ProfileFields: application.ProfileFields{FirstName: "A", LastName: "B"}},
		"no digit":     {Email: "a@example.com", Password: "onlyletters", ProfileFields: application.ProfileFields{FirstName: "A", LastName: "B"}},
		"missing name": {Email: "a@example.com", Password: testPassword},
	}
	for name, req := range cases {
		if _, err := f.Service.Register(context.Background(), req); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestBootstrapAdminEmail(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	admin := registerUser(t, f, "ADMIN@example.com")
	if !admin.User.IsAdmin {
		t.Fatalf("bootstrap admin email must be created as admin")
	}
}

func TestLoginFailuresAndLockout(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	registerUser(t, f, "lock@example.com")

	if _, err := f.Service.Login(ctx, application.LoginRequest{Email: "ghost@example.com", Password: testPassword}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must be invalid credentials, got %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.Service.Login(ctx, application.LoginRequest{Email: "lock@example.com", Password: "wrong1234"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i, err)
		}
	}
	if _, err := f.Service.Login(ctx, application.LoginRequest{Email: "lock@example.com", Password: testPassword}); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected lockout after threshold, got %v", err)
	}
}

func TestAuthenticateDistinguishesMissingFromInvalid(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	reg := registerUser(t, f, "tok@example.com")

	if _, err := f.Service.Authenticate(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("missing token must be unauthenticated, got %v", err)
	}
	if _, err := f.Service.Authenticate(ctx, "forged"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("unknown token must be invalid, got %v", err)
	}
	f.Signer.Expire(reg.Token)
	if _, err := f.Service.Authenticate(ctx, reg.Token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expired token must be reported as expired, got %v", err)
	}
}

func TestNonAdminCannotListOrders(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	user := registerUser(t, f, "user@example.com")
	admin := registerUser(t, f, "admin@example.com")

	if _, err := f.Service.ListOrders(ctx, claimsFor(t, f, user.Token), application.OrderListQuery{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected insufficient privilege, got %v", err)
	}
	if _, err := f.Service.ListOrders(ctx, claimsFor(t, f, admin.Token), application.OrderListQuery{}); err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	registerUser(t, f, "reset@example.com")

	if err := f.Service.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must be acknowledged, got %v", err)
	}
	if len(f.Notifier.Resets) != 0 {
		t.Fatalf("no email may be sent for an unknown address")
	}
	if err := f.Service.RequestPasswordReset(ctx, "not-an-email"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("malformed email must be a validation error, got %v", err)
	}

	if err := f.Service.RequestPasswordReset(ctx, "reset@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if len(f.Notifier.Resets) != 1 {
		t.Fatalf("expected one reset email, got %d", len(f.Notifier.Resets))
	}
	link := f.Notifier.Resets[0].Link
	if !strings.HasPrefix(link, "https://shop.example/reset-password/") {
		t.Fatalf("unexpected reset link %q", link)
	}
	token := link[strings.LastIndex(link, "/")+1:]
	if len(token) != 64 {
		t.Fatalf("expected 32-byte hex token, got %q", token)
	}
	user, _ := f.Users.GetByEmail(ctx, "reset@example.com")
	if user.ResetTokenHash == nil || *user.ResetTokenHash == token {
		t.Fatalf("only a digest of the token may be stored")
	}

	if err := f.Service.ResetPassword(ctx, application.PasswordResetRequest{Token: token, NewPassword: "nuova2025"}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if err := f.Service.ResetPassword(ctx, application.PasswordResetRequest{Token: token, NewPassword: "altra2026"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("token must be single use, got %v", err)
	}
	if _, err := f.Service.Login(ctx, application.LoginRequest{Email: "reset@example.com", Password: "nuova2025"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := f.Service.Login(ctx, application.LoginRequest{Email: "reset@example.com", Password: testPassword}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

func TestResetPasswordRejectsWeakPasswordAndBlankToken(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	if err := f.Service.ResetPassword(ctx, application.PasswordResetRequest{Token: " ", NewPassword: "nuova2025"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank token must be rejected, got %v", err)
	}
	if err := f.Service.ResetPassword(ctx, application.PasswordResetRequest{Token: "abc", NewPassword: "short"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("weak password must be rejected, got %v", err)
	}
}
