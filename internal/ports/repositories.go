package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maglieria/storefront/internal/domain"
)

// CreateUserParams captures the fields written on registration.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Profile      domain.ShippingProfile
	IsAdmin      bool
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for customer accounts.
type UserRepository interface {
	CreateWithOutboxTx(ctx context.Context, params CreateUserParams, outboxEvent OutboxEvent) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, profile domain.ShippingProfile, passwordHash *string, at time.Time) (domain.User, error)
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken swaps the password for the user holding an unexpired token
	// and clears the token in the same statement so it cannot be replayed.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Delete(ctx context.Context, userID int64) error
	SetAdmin(ctx context.Context, userID int64, isAdmin bool, at time.Time) error
}

// ProductRepository is the catalog store.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, productID int64) (domain.Product, error)
	GetByIDs(ctx context.Context, productIDs []int64) (map[int64]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, productID int64) error
}

// PlaceOrderParams is everything written by one order placement.
type PlaceOrderParams struct {
	Order domain.Order
	// SyncProfileFor, when set, copies the order's shipping block onto that user.
	SyncProfileFor *int64
}

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository owns order headers and line items.
type OrderRepository interface {
	// PlaceWithOutboxTx writes profile sync, header, items and the outbox row atomically.
	// The outbox row is partitioned by the new order id; outboxEvent.PartitionKey is not read.
	PlaceWithOutboxTx(ctx context.Context, params PlaceOrderParams, outboxEvent OutboxEvent) (domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (domain.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	List(ctx context.Context, filter OrderListFilter) ([]domain.Order, int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus, at time.Time) error
	Delete(ctx context.Context, orderID int64) error
}

// CommentRepository is the append-only review store.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	List(ctx context.Context, limit, offset int) ([]domain.Comment, error)
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for domain events.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}
