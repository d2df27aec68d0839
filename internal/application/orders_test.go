package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/maglieria/storefront/internal/application"
	"github.com/maglieria/storefront/internal/application/apptest"
	"github.com/maglieria/storefront/internal/domain"
)

func customer() domain.ShippingProfile {
	return domain.ShippingProfile{
		FirstName: "Anna",
		LastName:  "Verdi",
		Email:     "a@b.com",
		Address:   "Via Garibaldi 10",
		City:      "Bologna",
		Province:  "BO",
		ZipCode:   "40121",
		Country:   "Italy",
		Phone:     "+39 051 123456",
	}
}

func magliettaNera(qty int) domain.CartLine {
	return domain.CartLine{
		ProductID: 1,
		Name:      "Maglietta Nera",
		Image:     "nera.jpg",
		Size:      "M",
		Language:  "Italiano",
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString("19.99"),
	}
}

func orderInput(total string, lines ...domain.CartLine) application.SubmitOrderInput {
	return application.SubmitOrderInput{
		Customer:    customer(),
		Items:       lines,
		TotalAmount: mo.Some(decimal.RequireFromString(total)),
	}
}

func TestSubmitOrderMagliettaNeraScenario(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	res, err := f.Service.SubmitOrder(context.Background(), orderInput("39.98", magliettaNera(2)))
	if err != nil {
		t.Fatalf("submit order failed: %v", err)
	}
	order, err := f.Orders.GetByID(context.Background(), res.OrderID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("39.98")) {
		t.Fatalf("expected total 39.98, got %s", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", order.Items)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.UserID != nil {
		t.Fatalf("guest order must not have an owner")
	}
	if len(f.Notifier.Confirmations) != 1 || f.Notifier.Confirmations[0].ID != res.OrderID {
		t.Fatalf("expected one confirmation email for order %d", res.OrderID)
	}
	if len(f.Notifier.Receipts[0]) == 0 {
		t.Fatalf("expected receipt attachment")
	}
	if len(f.Orders.Events) != 1 || f.Orders.Events[0].EventType != "order.placed" {
		t.Fatalf("expected one order.placed event, got %+v", f.Orders.Events)
	}
}

func TestSubmitOrderIgnoresTamperedTotal(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	second := magliettaNera(1)
	second.ProductID = 2
	second.Name = "Maglietta Bianca"
	second.UnitPrice = decimal.RequireFromString("24.50")

	res, err := f.Service.SubmitOrder(context.Background(), orderInput("0.01", magliettaNera(3), second))
	if err != nil {
		t.Fatalf("submit order failed: %v", err)
	}
	order, _ := f.Orders.GetByID(context.Background(), res.OrderID)
	want := decimal.RequireFromString("84.47")
	if !order.TotalAmount.Equal(want) {
		t.Fatalf("expected recomputed total %s, got %s", want, order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(order.Items))
	}
}

func TestSubmitOrderValidationHappensBeforePersistence(t *testing.T) {
	t.Parallel()

	badEmail := orderInput("19.99", magliettaNera(1))
	badEmail.Customer.Email = "not-an-email"
	noName := orderInput("19.99", magliettaNera(1))
	noName.Customer.LastName = " "
	noTotal := orderInput("19.99", magliettaNera(1))
	noTotal.TotalAmount = mo.None[decimal.Decimal]()
	zeroQty := magliettaNera(0)
	negPrice := magliettaNera(1)
	negPrice.UnitPrice = decimal.RequireFromString("-1")
	noSize := magliettaNera(1)
	noSize.Size = ""
	noLanguage := magliettaNera(1)
	noLanguage.Language = " "
	subCent := magliettaNera(3)
	subCent.UnitPrice = decimal.RequireFromString("0.005")
	hugeQty := magliettaNera(int(^uint(0) >> 1))
	discounted := magliettaNera(1)
	discounted.UnitPrice = decimal.RequireFromString("0.01")
	luxury := magliettaNera(domain.MaxLineQuantity)
	luxury.UnitPrice = domain.MaxUnitPrice

	cases := map[string]application.SubmitOrderInput{
		"empty cart":           orderInput("0"),
		"bad email":            badEmail,
		"missing name":         noName,
		"missing total":        noTotal,
		"zero quantity":        orderInput("0", zeroQty),
		"negative price":       orderInput("0", negPrice),
		"missing size":         orderInput("19.99", noSize),
		"missing language":     orderInput("19.99", noLanguage),
		"sub-cent price":       orderInput("0.02", subCent),
		"huge quantity":        orderInput("0", hugeQty),
		"merged over cap":      orderInput("23988", magliettaNera(600), magliettaNera(600)),
		"merge with new price": orderInput("19.99", magliettaNera(1), discounted),
		"total over column":    orderInput("0", luxury),
	}
	for name, in := range cases {
		name, in := name, in
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := apptest.NewFixture()
			_, err := f.Service.SubmitOrder(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.Orders.Count() != 0 {
				t.Fatalf("no order may be written on validation failure")
			}
			if len(f.Notifier.Confirmations) != 0 {
				t.Fatalf("no email may be sent on validation failure")
			}
		})
	}
}

func TestSubmitOrderRollsBackOnItemFailure(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	reg := registerUser(t, f, "anna@example.com")

	in := orderInput("0", magliettaNera(1), lineFor(2, "L"), lineFor(3, "XL"))
	in.UserID = mo.Some(reg.User.ID)
	in.SaveInfo = true
	f.Orders.FailOnItem = 2

	_, err := f.Service.SubmitOrder(ctx, in)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if f.Orders.Count() != 0 || len(f.Orders.Events) != 0 {
		t.Fatalf("expected no order and no event after rollback")
	}
	if len(f.Notifier.Confirmations) != 0 {
		t.Fatalf("no email may be sent after rollback")
	}
	user, _ := f.Users.GetByID(ctx, reg.User.ID)
	if user.Profile.City != "" {
		t.Fatalf("profile sync must roll back, got city %q", user.Profile.City)
	}
}

func TestSubmitOrderTwiceCreatesTwoOrders(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	in := orderInput("39.98", magliettaNera(2))
	first, err := f.Service.SubmitOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	second, err := f.Service.SubmitOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if first.OrderID == second.OrderID {
		t.Fatalf("expected two distinct order ids, got %d twice", first.OrderID)
	}
	if f.Orders.Count() != 2 {
		t.Fatalf("expected 2 orders, got %d", f.Orders.Count())
	}
}

func TestSubmitOrderSucceedsWhenEmailFails(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	f.Notifier.Fail = true
	res, err := f.Service.SubmitOrder(context.Background(), orderInput("39.98", magliettaNera(2)))
	if err != nil {
		t.Fatalf("email failure must not fail the order: %v", err)
	}
	if _, err := f.Orders.GetByID(context.Background(), res.OrderID); err != nil {
		t.Fatalf("order must be durable: %v", err)
	}
}

func TestSubmitOrderProfileSync(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	reg := registerUser(t, f, "anna@example.com")

	in := orderInput("39.98", magliettaNera(2))
	in.UserID = mo.Some(reg.User.ID)
	if _, err := f.Service.SubmitOrder(ctx, in); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	user, _ := f.Users.GetByID(ctx, reg.User.ID)
	if user.Profile.City != "" {
		t.Fatalf("profile must not change without saveInfo")
	}

	in.SaveInfo = true
	if _, err := f.Service.SubmitOrder(ctx, in); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	user, _ = f.Users.GetByID(ctx, reg.User.ID)
	if user.Profile.City != "Bologna" || user.Profile.ZipCode != "40121" {
		t.Fatalf("expected shipping fields saved, got %+v", user.Profile)
	}
	if user.Profile.FirstName != "Test" || user.Email != "anna@example.com" {
		t.Fatalf("identity fields must not be touched, got %+v", user)
	}

	mine, err := f.Service.MyOrders(ctx, claimsFor(t, f, reg.Token), 1, 10)
	if err != nil {
		t.Fatalf("my orders failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders in history, got %d", len(mine))
	}
}

func TestSubmitOrderMergesDuplicateLinesAndFillsSnapshots(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	product, err := f.Products.Create(ctx, domain.Product{
		Name:       "Maglietta Rossa",
		Price:      decimal.RequireFromString("15.00"),
		Sizes:      []string{"M"},
		Languages:  []string{"it", "en"},
		CoverImage: "rossa.jpg",
		Images:     map[string]string{"en": "rossa-en.jpg"},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	line := domain.CartLine{ProductID: product.ID, Size: "M", Language: "en", Quantity: 1, UnitPrice: decimal.RequireFromString("15.00")}
	res, err := f.Service.SubmitOrder(ctx, orderInput("30.00", line, line))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	order, _ := f.Orders.GetByID(ctx, res.OrderID)
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", order.Items)
	}
	if order.Items[0].ProductName != "Maglietta Rossa" || order.Items[0].ProductImage != "rossa-en.jpg" {
		t.Fatalf("expected catalog snapshot, got %+v", order.Items[0])
	}

	unknown := domain.CartLine{ProductID: 999, Size: "M", Language: "it", Quantity: 1, UnitPrice: decimal.RequireFromString("1")}
	if _, err := f.Service.SubmitOrder(ctx, orderInput("1", unknown)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error for unknown product without a name, got %v", err)
	}
}

func lineFor(productID int64, size string) domain.CartLine {
	l := magliettaNera(1)
	l.ProductID = productID
	l.Size = size
	return l
}
