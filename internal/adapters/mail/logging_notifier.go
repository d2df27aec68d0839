package mail

import (
	"context"
	"log/slog"

	"github.com/maglieria/storefront/internal/domain"
)

// LoggingNotifier records emails instead of sending them. Used when SMTP is not configured.
type LoggingNotifier struct {
	logger *slog.Logger
}

func NewLoggingNotifier(logger *slog.Logger) *LoggingNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingNotifier{logger: logger.With("module", "mail.logging_notifier", "layer", "adapter")}
}

func (n *LoggingNotifier) SendOrderConfirmation(ctx context.Context, order domain.Order, receiptPDF []byte) error {
	n.logger.InfoContext(ctx, "order confirmation email",
		"operation", "send_order_confirmation",
		"outcome", "skipped",
		"order_id", order.ID,
		"to", order.Shipping.Email,
		"item_count", len(order.Items),
		"total_amount", order.TotalAmount.StringFixed(2),
		"receipt_bytes", len(receiptPDF),
	)
	return nil
}

func (n *LoggingNotifier) SendPasswordReset(ctx context.Context, email, _ string) error {
	// the link carries a live token and is never logged
	n.logger.InfoContext(ctx, "password reset email",
		"operation", "send_password_reset",
		"outcome", "skipped",
		"to", email,
	)
	return nil
}
