package application

import (
	"log/slog"
	"time"

	"github.com/maglieria/storefront/internal/ports"
)

type Service struct {
	cfg      Config
	users    ports.UserRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
	comments ports.CommentRepository
	catalog  ports.CatalogCache
	lockouts ports.LockoutStore
	hasher   ports.PasswordHasher
	tokens   ports.TokenSigner
	notifier ports.Notifier
	receipts ports.ReceiptRenderer
	logger   *slog.Logger
	nowFn    func() time.Time
}

type Dependencies struct {
	Config   Config
	Users    ports.UserRepository
	Products ports.ProductRepository
	Orders   ports.OrderRepository
	Comments ports.CommentRepository
	// Catalog and Lockouts are optional; nil disables caching and lockout.
	Catalog  ports.CatalogCache
	Lockouts ports.LockoutStore
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenSigner
	Notifier ports.Notifier
	Receipts ports.ReceiptRenderer
	Logger   *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.ResetTokenTTL <= 0 || cfg.ResetTokenTTL > time.Hour {
		cfg.ResetTokenTTL = time.Hour
	}
	if cfg.FailedLoginThreshold <= 0 {
		cfg.FailedLoginThreshold = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		users:    deps.Users,
		products: deps.Products,
		orders:   deps.Orders,
		comments: deps.Comments,
		catalog:  deps.Catalog,
		lockouts: deps.Lockouts,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
		receipts: deps.Receipts,
		logger:   logger.With("service", "storefront", "module", "application", "layer", "application"),
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}
