package ports

import (
	"context"
	"time"

	"github.com/maglieria/storefront/internal/domain"
)

// LockoutState is the current lockout envelope for a login key.
// It is cache-backed to avoid hot writes on every failed login.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore handles short-lived brute-force protection state.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

// CatalogCache is a read-through cache in front of the product store.
// A miss is reported as (zero, false, nil).
type CatalogCache interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, bool, error)
	PutProduct(ctx context.Context, product domain.Product) error
	GetProductList(ctx context.Context) ([]domain.Product, bool, error)
	PutProductList(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context, productIDs ...int64) error
}
