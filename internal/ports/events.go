package ports

import (
	"context"

	"github.com/maglieria/storefront/internal/domain"
)

// EventPublisher is the outbound domain-event publish port.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// Notifier delivers customer emails. Callers treat delivery as best effort.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order domain.Order, receiptPDF []byte) error
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

// ReceiptRenderer produces a printable receipt for an order.
type ReceiptRenderer interface {
	Render(order domain.Order) ([]byte, error)
}
