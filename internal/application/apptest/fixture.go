package apptest

import (
	"io"
	"log/slog"
	"time"

	"github.com/maglieria/storefront/internal/application"
)

type Fixture struct {
	Service  *application.Service
	Users    *Users
	Products *Products
	Orders   *Orders
	Comments *Comments
	Lockouts *Lockouts
	Signer   *Signer
	Notifier *Notifier
}

func DefaultConfig() application.Config {
	return application.Config{
		TokenTTL:             time.Hour,
		ResetTokenTTL:        time.Hour,
		ResetURLBase:         "https://shop.example/reset-password",
		FailedLoginThreshold: 3,
		LockoutDuration:      15 * time.Minute,
		BootstrapAdminEmail:  "admin@example.com",
		AttachReceipts:       true,
	}
}

func NewFixture() *Fixture {
	return NewFixtureWithConfig(DefaultConfig())
}

func NewFixtureWithConfig(cfg application.Config) *Fixture {
	users := NewUsers()
	f := &Fixture{
		Users:    users,
		Products: NewProducts(),
		Orders:   NewOrders(users),
		Comments: &Comments{},
		Lockouts: NewLockouts(),
		Signer:   NewSigner(),
		Notifier: &Notifier{},
	}
	f.Service = application.NewService(application.Dependencies{
		Config:   cfg,
		Users:    f.Users,
		Products: f.Products,
		Orders:   f.Orders,
		Comments: f.Comments,
		Lockouts: f.Lockouts,
		Hasher:   Hasher{},
		Tokens:   f.Signer,
		Notifier: f.Notifier,
		Receipts: Receipts{},
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	return f
}
