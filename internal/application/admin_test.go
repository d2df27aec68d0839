package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"

	"github.com/maglieria/storefront/internal/application"
	"github.com/maglieria/storefront/internal/application/apptest"
	"github.com/maglieria/storefront/internal/domain"
)

func TestOrderStatusStateMachine(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	admin := claimsFor(t, f, registerUser(t, f, "admin@example.com").Token)

	res, err := f.Service.SubmitOrder(ctx, orderInput("39.98", magliettaNera(2)))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := f.Service.UpdateOrderStatus(ctx, admin, res.OrderID, "delivered"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending -> delivered must be rejected, got %v", err)
	}
	if _, err := f.Service.UpdateOrderStatus(ctx, admin, res.OrderID, "lost"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown status must be a validation error, got %v", err)
	}
	updated, err := f.Service.UpdateOrderStatus(ctx, admin, res.OrderID, "Shipped")
	if err != nil {
		t.Fatalf("pending -> shipped failed: %v", err)
	}
	if updated.Status != "shipped" {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}
	if _, err := f.Service.UpdateOrderStatus(ctx, admin, res.OrderID, "delivered"); err != nil {
		t.Fatalf("shipped -> delivered failed: %v", err)
	}
	if _, err := f.Service.UpdateOrderStatus(ctx, admin, res.OrderID, "cancelled"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("delivered is terminal, got %v", err)
	}
	if _, err := f.Service.UpdateOrderStatus(ctx, admin, 4242, "shipped"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	shipped, err := f.Service.ListOrders(ctx, admin, application.OrderListQuery{Status: "delivered"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if shipped.Total != 1 || len(shipped.Orders) != 1 {
		t.Fatalf("expected one delivered order, got %+v", shipped)
	}

	receipt, err := f.Service.OrderReceipt(ctx, admin, res.OrderID)
	if err != nil || len(receipt.Content) == 0 {
		t.Fatalf("receipt failed: %v", err)
	}

	if err := f.Service.DeleteOrder(ctx, admin, res.OrderID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := f.Service.DeleteOrder(ctx, admin, res.OrderID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete must be not found, got %v", err)
	}
}

func TestUserAdministration(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	adminRes := registerUser(t, f, "admin@example.com")
	admin := claimsFor(t, f, adminRes.Token)
	userRes := registerUser(t, f, "cliente@example.com")
	user := claimsFor(t, f, userRes.Token)

	if _, err := f.Service.ListUsers(ctx, user, 1, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin must not list users, got %v", err)
	}
	users, err := f.Service.ListUsers(ctx, admin, 1, 10)
	if err != nil || len(users) != 2 {
		t.Fatalf("expected 2 users, got %d (%v)", len(users), err)
	}

	promoted, err := f.Service.SetUserAdmin(ctx, admin, userRes.User.ID, true)
	if err != nil || !promoted.IsAdmin {
		t.Fatalf("promote failed: %v", err)
	}
	// the new admin is recognised immediately because the flag is read from the store
	if _, err := f.Service.ListUsers(ctx, user, 1, 10); err != nil {
		t.Fatalf("promoted user should list users: %v", err)
	}

	if _, err := f.Service.SetUserAdmin(ctx, admin, adminRes.User.ID, false); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("self demotion must be rejected, got %v", err)
	}
	if err := f.Service.DeleteUser(ctx, admin, adminRes.User.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("self deletion must be rejected, got %v", err)
	}
	if err := f.Service.DeleteUser(ctx, admin, userRes.User.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if _, err := f.Service.ListUsers(ctx, user, 1, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("deleted user must lose access, got %v", err)
	}
}

func TestUpdateProfileOwnershipAndPassword(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	reg := registerUser(t, f, "profilo@example.com")
	claims := claimsFor(t, f, reg.Token)

	req := application.UpdateProfileRequest{ProfileFields: application.ProfileFields{
		FirstName: "Giulia", LastName: "Neri", City: "Napoli", PhoneNumber: "333",
	}}
	if _, err := f.Service.UpdateProfile(ctx, claims, reg.User.ID+1, req); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("updating another user must be forbidden, got %v", err)
	}

	updated, err := f.Service.UpdateProfile(ctx, claims, reg.User.ID, req)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Giulia" || updated.City != "Napoli" || updated.Email != "profilo@example.com" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	weak := "abc"
	req.Password = &weak
	if _, err := f.Service.UpdateProfile(ctx, claims, reg.User.ID, req); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("weak password must be rejected, got %v", err)
	}
	strong := "cambiata2025"
	req.Password = &strong
	if _, err := f.Service.UpdateProfile(ctx, claims, reg.User.ID, req); err != nil {
		t.Fatalf("password change failed: %v", err)
	}
	if _, err := f.Service.Login(ctx, application.LoginRequest{Email: "profilo@example.com", Password: strong}); err != nil {
		t.Fatalf("login with changed password failed: %v", err)
	}

	me, err := f.Service.Me(ctx, claims)
	if err != nil || me.LastName != "Neri" {
		t.Fatalf("me failed: %+v %v", me, err)
	}
}

func TestOrderItemsVisibleToOwnerAndAdmin(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	owner := registerUser(t, f, "owner@example.com")
	other := registerUser(t, f, "other@example.com")
	admin := registerUser(t, f, "admin@example.com")

	in := orderInput("39.98", magliettaNera(2))
	in.UserID = mo.Some(owner.User.ID)
	res, err := f.Service.SubmitOrder(ctx, in)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	items, err := f.Service.OrderItems(ctx, claimsFor(t, f, owner.Token), res.OrderID)
	if err != nil || len(items) != 1 || items[0].ProductName != "Maglietta Nera" {
		t.Fatalf("owner must see items: %+v %v", items, err)
	}
	if _, err := f.Service.OrderItems(ctx, claimsFor(t, f, other.Token), res.OrderID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("other users must not learn the order exists, got %v", err)
	}
	if _, err := f.Service.OrderItems(ctx, claimsFor(t, f, other.Token), res.OrderID+1000); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for a missing order, got %v", err)
	}
	if _, err := f.Service.OrderItems(ctx, claimsFor(t, f, admin.Token), res.OrderID); err != nil {
		t.Fatalf("admin must see items: %v", err)
	}
}
